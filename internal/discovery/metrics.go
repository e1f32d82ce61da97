package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	stale    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commons",
			Subsystem: "discovery",
			Name:      "requests_total",
			Help:      "Discovery resolutions by strategy and status.",
		}, []string{"strategy", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "commons",
			Subsystem: "discovery",
			Name:      "request_duration_seconds",
			Help:      "Discovery resolution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "commons",
			Subsystem: "discovery",
			Name:      "stale_dropped_total",
			Help:      "Results dropped because a newer request superseded them.",
		}),
	}
	if err := registerOrReuse(reg, &m.requests); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.stale); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("discovery: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("discovery: register metric: %w", err)
	}
	return nil
}

func (m *metrics) observe(strategy Strategy, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	switch {
	case errors.Is(err, context.Canceled):
		status = "canceled"
	case err != nil:
		status = "error"
	}
	m.requests.WithLabelValues(string(strategy), status).Inc()
	m.duration.WithLabelValues(string(strategy)).Observe(time.Since(start).Seconds())
}

func (m *metrics) staleDropped() {
	if m == nil {
		return
	}
	m.stale.Inc()
}
