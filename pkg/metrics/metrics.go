// Package metrics exposes Prometheus instrumentation for the rendering
// runtime: component invocations, scheduler flushes, effects, and mounts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config controls how the instrument set is registered.
type Config struct {
	// Namespace prefixes every metric name. Defaults to "lumen".
	Namespace string

	// Subsystem is the optional second name segment.
	Subsystem string

	// ConstLabels are attached to every metric, e.g. an app identifier
	// when several runtimes share one registry.
	ConstLabels prometheus.Labels

	// Buckets shape the flush-duration histogram. Defaults to
	// prometheus.DefBuckets, which suits millisecond-scale flushes.
	Buckets []float64

	// Registry receives the instruments. Defaults to
	// prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// Option adjusts Config before registration.
type Option func(*Config)

// WithNamespace overrides the metric name prefix.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem adds a subsystem segment to metric names.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels attaches fixed labels to every metric.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets replaces the flush-duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry registers the instruments somewhere other than the
// default registerer. Tests pass a private registry here.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "lumen",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the runtime's instrument set.
type Metrics struct {
	// Renders counts component function invocations plus host element
	// constructions.
	Renders prometheus.Counter

	// RenderErrors counts panics recovered during renders, effects,
	// cleanups, and event handlers.
	RenderErrors prometheus.Counter

	// Flushes counts scheduler flush passes.
	Flushes prometheus.Counter

	// FlushDuration observes wall time per flush pass in seconds.
	FlushDuration prometheus.Histogram

	// Effects counts post-commit effect executions.
	Effects prometheus.Counter

	// Mounts counts root mounts.
	Mounts prometheus.Counter
}

// New registers and returns the runtime instrument set.
func New(opts ...Option) *Metrics {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Metrics{
		Renders: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of render operations.",
			ConstLabels: cfg.ConstLabels,
		}),
		RenderErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total number of panics recovered by the runtime.",
			ConstLabels: cfg.ConstLabels,
		}),
		Flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flush passes.",
			ConstLabels: cfg.ConstLabels,
		}),
		FlushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Wall time per scheduler flush pass.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
		Effects: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "effects_total",
			Help:        "Total number of post-commit effects executed.",
			ConstLabels: cfg.ConstLabels,
		}),
		Mounts: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "mounts_total",
			Help:        "Total number of root mounts.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}
