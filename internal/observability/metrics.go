// Package observability bundles the Prometheus metrics the job server
// exposes and the handler that serves them.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles solve metrics and provides helpers to record them.
// A nil *Collector is valid and records nothing, so callers never need
// to guard metric calls.
type Collector struct {
	gatherer prometheus.Gatherer

	SolvesTotal   *prometheus.CounterVec
	SolveDuration *prometheus.HistogramVec
	ActiveJobs    prometheus.Gauge
}

// NewCollector registers the solve metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Re-registration of an identical collector reuses the existing metric.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridplan_solves_total",
		Help: "Total number of solve jobs executed, labeled by kind and outcome.",
	}, []string{"kind", "status"})
	if err := register(reg, &solves); err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridplan_solve_duration_seconds",
		Help:    "Solve job wall time in seconds, labeled by kind.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	}, []string{"kind"})
	if err := register(reg, &durations); err != nil {
		return nil, err
	}

	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gridplan_active_jobs",
		Help: "Number of solve jobs currently running.",
	})
	if err := register(reg, &active); err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		SolvesTotal:   solves,
		SolveDuration: durations,
		ActiveJobs:    active,
	}, nil
}

// register adds c to reg, replacing *c with the already-registered
// collector when one exists.
func register[C prometheus.Collector](reg prometheus.Registerer, c *C) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
		if existing, ok := are.ExistingCollector.(C); ok {
			*c = existing
			return nil
		}
	}
	return err
}

// Handler returns the HTTP handler serving the collector's registry.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// JobStarted records the start of a solve job.
func (c *Collector) JobStarted() {
	if c == nil {
		return
	}
	c.ActiveJobs.Inc()
}

// JobFinished records a finished solve job with its outcome and wall
// time.
func (c *Collector) JobFinished(kind string, err error, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.ActiveJobs.Dec()

	status := "completed"
	if err != nil {
		status = "failed"
	}
	c.SolvesTotal.WithLabelValues(kind, status).Inc()
	c.SolveDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
