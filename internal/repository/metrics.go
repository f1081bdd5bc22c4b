package repository

import "github.com/prometheus/client_golang/prometheus"

// repositoryMetrics holds Prometheus collectors for cache and load activity.
// A nil *repositoryMetrics records nothing.
type repositoryMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	loads     prometheus.Counter
	failures  *prometheus.CounterVec
	evictions prometheus.Counter
	size      prometheus.Gauge
}

func newRepositoryMetrics(reg prometheus.Registerer) (*repositoryMetrics, error) {
	if reg == nil {
		return nil, nil
	}
	m := &repositoryMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "templatemap",
			Subsystem: "repository",
			Name:      "cache_hits_total",
			Help:      "Total number of template cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "templatemap",
			Subsystem: "repository",
			Name:      "cache_misses_total",
			Help:      "Total number of template cache misses",
		}),
		loads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "templatemap",
			Subsystem: "repository",
			Name:      "loads_total",
			Help:      "Total number of templates read and parsed",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "templatemap",
			Subsystem: "repository",
			Name:      "failures_total",
			Help:      "Total number of failed repository operations by error kind",
		}, []string{"operation", "kind"}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "templatemap",
			Subsystem: "repository",
			Name:      "cache_evictions_total",
			Help:      "Total number of explicit cache evictions",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "templatemap",
			Subsystem: "repository",
			Name:      "cache_size",
			Help:      "Current number of cached templates",
		}),
	}

	for _, c := range []prometheus.Collector{m.hits, m.misses, m.loads, m.failures, m.evictions, m.size} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *repositoryMetrics) recordHit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *repositoryMetrics) recordMiss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *repositoryMetrics) recordLoad() {
	if m != nil {
		m.loads.Inc()
	}
}

func (m *repositoryMetrics) recordFailure(operation, kind string) {
	if m != nil {
		m.failures.WithLabelValues(operation, kind).Inc()
	}
}

func (m *repositoryMetrics) recordEviction() {
	if m != nil {
		m.evictions.Inc()
	}
}

func (m *repositoryMetrics) updateSize(size int) {
	if m != nil {
		m.size.Set(float64(size))
	}
}
