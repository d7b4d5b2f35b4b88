package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics registers on the given registerer only, so independent pipelines
// (and tests) never collide on the default registry.
type Metrics struct {
	derivatives       *prometheus.CounterVec
	derivativeBytes   *prometheus.CounterVec
	transcodeDuration *prometheus.HistogramVec
	deletions         *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		derivatives: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imagepipe_derivatives_total",
				Help: "Derivatives attempted, by format, role and outcome",
			},
			[]string{"format", "role", "status"},
		),
		derivativeBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imagepipe_derivative_bytes_total",
				Help: "Encoded bytes written, by format",
			},
			[]string{"format"},
		),
		transcodeDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "imagepipe_transcode_duration_seconds",
				Help:    "Time to resize, encode and store one derivative",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"format"},
		),
		deletions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imagepipe_deletions_total",
				Help: "Deletion attempts, by outcome (deleted, missing, failed)",
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) ObserveDerivative(format, role string, size int, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.derivatives.WithLabelValues(format, role, status).Inc()
	if err == nil {
		m.derivativeBytes.WithLabelValues(format).Add(float64(size))
		m.transcodeDuration.WithLabelValues(format).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) ObserveDeletion(outcome string) {
	m.deletions.WithLabelValues(outcome).Inc()
}

// Push sends everything in g to a Prometheus Pushgateway; batch runs end
// before a scraper would see them.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer) error {
	if err := push.New(url, job).Gatherer(g).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics: %w", err)
	}
	return nil
}
