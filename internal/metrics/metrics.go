// Package metrics exposes prometheus instrumentation for path queries and
// hole field builds. Metrics are registered on the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "terrainpath"

var (
	// PathQueries counts ConstructPath calls by resolved movement mode.
	PathQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "path_queries_total",
		Help:      "Path constructions by movement mode.",
	}, []string{"mode"})

	// WalkerSteps records how many walker iterations a query consumed.
	WalkerSteps = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "walker_steps",
		Help:      "Iterations used by the path walker per query.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"mode"})

	// HoleFieldBuilds counts hole distance field builds by outcome.
	HoleFieldBuilds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hole_field_builds_total",
		Help:      "Hole distance field builds by outcome.",
	}, []string{"outcome"})

	// HoleFieldSeconds observes hole distance field build duration.
	HoleFieldSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "hole_field_build_seconds",
		Help:      "Duration of hole distance field builds.",
		Buckets:   prometheus.DefBuckets,
	})

	// Diagnostics counts recovered logic/data errors by kind.
	Diagnostics = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "diagnostics_total",
		Help:      "Fatal-level diagnostics raised by the engine.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(PathQueries, WalkerSteps, HoleFieldBuilds, HoleFieldSeconds, Diagnostics)
}
