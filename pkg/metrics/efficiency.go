package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess    = "success"
	OutcomeError      = "error"
	OutcomeSuperseded = "superseded"
	OutcomeTimeout    = "timeout"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

// EfficiencyMetrics records computation and cache behaviour of the efficiency engine.
type EfficiencyMetrics struct {
	duration      *prometheus.HistogramVec
	rowsFetched   *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewEfficiencyMetrics registers the efficiency metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewEfficiencyMetrics(reg prometheus.Registerer) *EfficiencyMetrics {
	if reg == nil {
		return &EfficiencyMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "efficiency_computation_duration_seconds",
		Help:    "Duration of efficiency computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	rowsFetched := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "efficiency_rows_fetched_total",
		Help: "Rows read from record sources by efficiency computations.",
	}, []string{"source"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "efficiency_cache_lookups_total",
		Help: "Efficiency result cache lookups.",
	}, []string{"result"})
	invalidations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "efficiency_cache_invalidations_total",
		Help: "Cache generations bumped by data changed signals.",
	}, []string{"source"})
	reg.MustRegister(duration, rowsFetched, cacheLookups, invalidations)
	return &EfficiencyMetrics{
		duration:      duration,
		rowsFetched:   rowsFetched,
		cacheLookups:  cacheLookups,
		invalidations: invalidations,
	}
}

// ObserveComputation records how long a computation took and how it ended.
func (m *EfficiencyMetrics) ObserveComputation(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// AddRowsFetched counts rows read from the named source.
func (m *EfficiencyMetrics) AddRowsFetched(source string, rows int) {
	if m == nil || m.rowsFetched == nil || rows <= 0 {
		return
	}
	m.rowsFetched.WithLabelValues(normalizeLabel(source)).Add(float64(rows))
}

// IncCacheLookup counts a cache hit or miss.
func (m *EfficiencyMetrics) IncCacheLookup(result string) {
	if m == nil || m.cacheLookups == nil {
		return
	}
	m.cacheLookups.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncInvalidation counts a cache generation bump for the named source.
func (m *EfficiencyMetrics) IncInvalidation(source string) {
	if m == nil || m.invalidations == nil {
		return
	}
	m.invalidations.WithLabelValues(normalizeLabel(source)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
