package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/commons/internal/config"
	"github.com/five82/commons/internal/filter"
	"github.com/five82/commons/internal/forum/forumtest"
)

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.API.BaseURL = baseURL
	cfg.API.Token = "tok"
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
	return cfg
}

func TestBuild_WiresClientControllerAndMetrics(t *testing.T) {
	var gotUA, gotAuth string
	srv := forumtest.NewServer([]forumtest.Thread{
		{ID: 1, Title: "Welcome week", Username: "ana", Tags: []string{"events"}, CreatedAt: time.Now()},
	}, nil)
	t.Cleanup(srv.Close)

	stack, err := Build(testConfig(t, srv.BaseURL()), nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	t.Cleanup(func() { _ = stack.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	page, strategy, err := stack.Controller.Fetch(ctx, filter.Decode("tag=events"))
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if strategy != "list" || len(page.Items) != 1 {
		t.Fatalf("Fetch = %v items via %q", len(page.Items), strategy)
	}

	reqs := srv.RequestsTo("threads")
	if len(reqs) != 1 {
		t.Fatalf("threads requests = %d, want 1", len(reqs))
	}
	gotUA = reqs[0].Header.Get("User-Agent")
	gotAuth = reqs[0].Header.Get("Authorization")
	if gotUA != "commons/"+Version || gotAuth != "Token tok" {
		t.Fatalf("headers UA=%q Authorization=%q", gotUA, gotAuth)
	}

	rec := httptest.NewRecorder()
	MetricsRouter(stack.Registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`commons_discovery_requests_total{status="ok",strategy="list"} 1`,
		"commons_discovery_request_duration_seconds",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics lacks %q", want)
		}
	}
}

func TestBuild_RejectsBadBaseURL(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = "http://"
	if _, err := Build(cfg, nil); err == nil {
		t.Fatal("Build accepted a base URL without host")
	}
}

func TestStack_OpenHistory(t *testing.T) {
	srv := forumtest.NewServer(nil, nil)
	t.Cleanup(srv.Close)

	stack, err := Build(testConfig(t, srv.BaseURL()), nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if err := stack.OpenHistory(); err != nil {
		t.Fatalf("OpenHistory returned error: %v", err)
	}
	if err := stack.History.Record(context.Background(), "tag=go", "#go", time.Now()); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if err := stack.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestNewLimiter(t *testing.T) {
	if l := newLimiter(config.APIConfig{RequestsPerSecond: 0}); l != nil {
		t.Fatalf("zero rate should disable limiting, got %v", l.Limit())
	}
	l := newLimiter(config.APIConfig{RequestsPerSecond: 2.5, Burst: 0})
	if l == nil || float64(l.Limit()) != 2.5 || l.Burst() != 1 {
		t.Fatalf("limiter = %v", l)
	}
}

func TestMetricsRouter_Healthz(t *testing.T) {
	stack, err := Build(config.Default(), nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	rec := httptest.NewRecorder()
	MetricsRouter(stack.Registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("/healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestStartMetricsServer(t *testing.T) {
	stack, err := Build(config.Default(), nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	ms, err := StartMetricsServer("127.0.0.1:0", stack.Registry, nil)
	if err != nil {
		t.Fatalf("StartMetricsServer returned error: %v", err)
	}
	t.Cleanup(func() { _ = ms.Shutdown(context.Background()) })

	resp, err := http.Get("http://" + ms.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	if _, err := StartMetricsServer(ms.Addr(), stack.Registry, nil); err == nil {
		t.Fatal("second bind on the same address succeeded")
	}
}

func TestOpenFileLogger(t *testing.T) {
	logger, closeFn, err := OpenFileLogger("", "debug")
	if err != nil || logger == nil {
		t.Fatalf("OpenFileLogger(empty) = %v, %v", logger, err)
	}
	_ = closeFn()

	path := filepath.Join(t.TempDir(), "logs", "commons.log")
	logger, closeFn, err = OpenFileLogger(path, "warn")
	if err != nil {
		t.Fatalf("OpenFileLogger returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "seq", 7)
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	if strings.Contains(text, "hidden") || !strings.Contains(text, "msg=shown") || !strings.Contains(text, "seq=7") {
		t.Fatalf("log file = %q", text)
	}
}

func TestNewConsoleLogger_UnknownLevelIsInfo(t *testing.T) {
	logger := NewConsoleLogger(io.Discard, "loud")
	if got := logger.GetLevel().String(); got != "info" {
		t.Fatalf("level = %q, want info", got)
	}
}
