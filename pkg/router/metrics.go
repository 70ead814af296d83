package router

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Navigation outcomes recorded on spans and metrics.
const (
	outcomeCommitted  = "committed"
	outcomeDelegated  = "delegated"
	outcomeCancelled  = "cancelled"
	outcomeUnroutable = "unroutable"
	outcomeReentrant  = "reentrant"
	outcomeNoop       = "noop"
)

// MetricsConfig configures the Prometheus metrics for the router.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vport").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the navigation duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vport",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for the router.
type metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration prometheus.Histogram
	permissionDenials  prometheus.Counter
	activationsTotal   *prometheus.CounterVec
}

// globalMetrics is the singleton metrics instance, created on the first
// call to EnableMetrics. Routers record through nil-guarded helpers, so
// metrics are strictly opt-in.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		navigationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		permissionDenials: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "permission_denials_total",
			Help:        "Total number of navigations refused by a viewport vote",
			ConstLabels: config.ConstLabels,
		}),

		activationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "viewport_activations_total",
			Help:        "Total number of viewport activations by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),
	}
}

// EnableMetrics initializes Prometheus metrics for all routers in the
// process. It is safe to call more than once; the first call wins.
//
// Metrics collected:
//   - vport_navigations_total: counter of navigations by outcome
//   - vport_navigation_duration_seconds: histogram of navigation duration
//   - vport_permission_denials_total: counter of refused navigations
//   - vport_viewport_activations_total: counter of activations by kind
func EnableMetrics(opts ...MetricsOption) {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
}

// loadMetrics captures the singleton under the same mutex EnableMetrics
// writes it with.
func loadMetrics() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}

func recordNavigation(outcome string, d time.Duration) {
	if m := loadMetrics(); m != nil {
		m.navigationsTotal.WithLabelValues(outcome).Inc()
		m.navigationDuration.Observe(d.Seconds())
	}
}

func recordPermissionDenied() {
	if m := loadMetrics(); m != nil {
		m.permissionDenials.Inc()
	}
}

func recordActivation(kind string) {
	if m := loadMetrics(); m != nil {
		m.activationsTotal.WithLabelValues(kind).Inc()
	}
}
