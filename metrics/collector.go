package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector holds all Prometheus metrics for the seeder and the recipe backend
type Collector struct {
	registry *prometheus.Registry

	// Seed pipeline
	RecordsFetched  *prometheus.CounterVec
	BranchFailures  *prometheus.CounterVec
	RecipesDropped  *prometheus.CounterVec
	RecipesWritten  prometheus.Counter
	SeedRunDuration prometheus.Gauge

	// Backend
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry, so tests can build as many as they like
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		RecordsFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "seed_records_fetched_total",
				Help:      "Raw records fetched from the remote API",
			},
			[]string{"strategy"},
		),
		BranchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "seed_branch_failures_total",
				Help:      "Search terms, categories or areas that contributed nothing because of an error",
			},
			[]string{"strategy"},
		),
		RecipesDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "seed_recipes_dropped_total",
				Help:      "Normalized recipes dropped before sampling",
			},
			[]string{"reason"},
		),
		RecipesWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "seed_recipes_written_total",
				Help:      "Recipes written to the seed document",
			},
		),
		SeedRunDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "seed_run_duration_seconds",
				Help:      "Wall time of the last seed run",
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		c.RecordsFetched,
		c.BranchFailures,
		c.RecipesDropped,
		c.RecipesWritten,
		c.SeedRunDuration,
		c.HTTPRequests,
		c.HTTPDuration,
		collectors.NewGoCollector(),
	)
	return c
}

// Registry exposes the underlying registry for promhttp
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveSeedRun records how long a seed run took
func (c *Collector) ObserveSeedRun(start time.Time) {
	c.SeedRunDuration.Set(time.Since(start).Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
