package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRouter serves /metrics from g and a trivial /healthz.
func MetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

// MetricsServer is a running metrics endpoint.
type MetricsServer struct {
	srv *http.Server
	ln  net.Listener
}

// StartMetricsServer binds addr and serves MetricsRouter in the background.
// Binding errors are returned; serve errors are logged.
func StartMetricsServer(addr string, g prometheus.Gatherer, logger *log.Logger) (*MetricsServer, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           MetricsRouter(g),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "err", err)
		}
	}()
	logger.Info("metrics server listening", "addr", ln.Addr().String())
	return &MetricsServer{srv: srv, ln: ln}, nil
}

// Addr is the bound address, useful when addr asked for port 0.
func (m *MetricsServer) Addr() string {
	return m.ln.Addr().String()
}

// Shutdown stops the server gracefully.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
