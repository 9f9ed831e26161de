// Package prommetrics exports fsbench fixture metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c := fsbench.New(fsys, fsbench.WithMetricsCollector(prommetrics.NewCollector(reg)))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prommetrics

import (
	"time"

	"github.com/hupe1980/fsbench"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements fsbench.MetricsCollector on Prometheus metrics.
type Collector struct {
	probes   *prometheus.CounterVec
	repairs  *prometheus.HistogramVec
	cleanups *prometheus.CounterVec
	cleanup  prometheus.Histogram
}

var _ fsbench.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer. Registering twice with the
// same registry panics.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fsbench_probes_total",
			Help: "Capability probes by outcome",
		}, []string{"capability", "outcome"}),
		repairs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fsbench_fixture_repair_seconds",
			Help:    "Latency of untimed fixture preparation and repair",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage", "status"}),
		cleanups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fsbench_teardowns_total",
			Help: "Teardowns by status",
		}, []string{"status"}),
		cleanup: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fsbench_teardown_seconds",
			Help:    "Latency of run root removal",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.probes, c.repairs, c.cleanups, c.cleanup)
	return c
}

// RecordProbe implements fsbench.MetricsCollector.
func (c *Collector) RecordProbe(capability string, outcome fsbench.ProbeOutcome) {
	c.probes.WithLabelValues(capability, outcome.String()).Inc()
}

// RecordRepair implements fsbench.MetricsCollector.
func (c *Collector) RecordRepair(stage string, d time.Duration, err error) {
	c.repairs.WithLabelValues(stage, status(err)).Observe(d.Seconds())
}

// RecordCleanup implements fsbench.MetricsCollector.
func (c *Collector) RecordCleanup(d time.Duration, err error) {
	c.cleanups.WithLabelValues(status(err)).Inc()
	c.cleanup.Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
