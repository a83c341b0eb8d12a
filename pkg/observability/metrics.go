package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/sieve"
	"github.com/aretw0/sieve/pkg/schema"
)

// Outcome labels for the cleans counter.
const (
	OutcomeValid   = "valid"   // cleaned successfully
	OutcomeInvalid = "invalid" // rejected by validation
	OutcomeError   = "error"   // schema missing, malformed, or undecodable
)

// Metrics holds the Prometheus collectors for a Sieve service.
type Metrics struct {
	registry *prometheus.Registry
	cleans   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// Option configures the Metrics collectors.
type Option func(*options)

type options struct {
	registry *prometheus.Registry
}

// WithRegistry registers the collectors on an existing registry instead of a
// fresh one, so hosts can expose Sieve metrics next to their own.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// NewMetrics creates and registers the Sieve collectors.
func NewMetrics(opts ...Option) *Metrics {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: o.registry,
		cleans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sieve_cleans_total",
				Help: "Total number of clean calls, by schema and outcome.",
			},
			[]string{"schema", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sieve_clean_duration_seconds",
				Help:    "Duration of clean calls, by schema.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"schema"},
		),
	}
	m.registry.MustRegister(m.cleans, m.duration)
	return m
}

// Hooks returns service hooks that record every clean call.
func (m *Metrics) Hooks() sieve.Hooks {
	return sieve.Hooks{
		OnClean: func(ctx context.Context, evt sieve.CleanEvent) {
			m.cleans.WithLabelValues(evt.Schema, Outcome(evt.Err)).Inc()
			m.duration.WithLabelValues(evt.Schema).Observe(evt.Duration.Seconds())
		},
	}
}

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for hosts that gather manually.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Outcome classifies a clean error into a counter label. Validation failures
// are a normal, expected outcome and get their own label; everything else
// (unknown schema, undecodable definition, malformed schema) is an error.
func Outcome(err error) string {
	if err == nil {
		return OutcomeValid
	}
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return OutcomeInvalid
	}
	return OutcomeError
}
