// Package metrics exports remap call counts and latencies to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Station-Manager/remap"
)

const resultOK = "ok"

// DefaultBuckets are the latency buckets in seconds. A map call without
// nested delegation is expected in the microsecond range.
var DefaultBuckets = []float64{
	0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05,
}

// Collector is a remap.Observer recording every top-level map call.
type Collector struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ remap.Observer = (*Collector)(nil)

// Option configures a Collector.
type Option func(*config)

type config struct {
	namespace string
	buckets   []float64
}

func WithNamespace(ns string) Option  { return func(c *config) { c.namespace = ns } }
func WithBuckets(b ...float64) Option { return func(c *config) { c.buckets = b } }

// NewCollector registers the collector's metrics with reg. A nil reg uses
// prometheus.DefaultRegisterer. Registering twice on the same registry panics.
func NewCollector(reg prometheus.Registerer, opts ...Option) *Collector {
	cfg := config{buckets: DefaultBuckets}
	for _, opt := range opts {
		opt(&cfg)
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Subsystem: "remap",
			Name:      "map_calls_total",
			Help:      "Top-level map calls by type pair, mode and result.",
		}, []string{"source", "destination", "mode", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Subsystem: "remap",
			Name:      "map_duration_seconds",
			Help:      "Duration of top-level map calls, nested delegation included.",
			Buckets:   cfg.buckets,
		}, []string{"source", "destination", "mode"}),
	}
}

// ObserveMap implements remap.Observer. Failed calls carry the error kind
// as their result label.
func (c *Collector) ObserveMap(pair remap.TypePair, mode remap.Mode, elapsed time.Duration, err error) {
	src, dst, m := pair.Source.String(), pair.Destination.String(), mode.String()

	result := resultOK
	if err != nil {
		result = remap.KindOf(err).String()
	}
	c.calls.WithLabelValues(src, dst, m, result).Inc()
	c.duration.WithLabelValues(src, dst, m).Observe(elapsed.Seconds())
}
