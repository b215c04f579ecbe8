// Package promadapters provides a Prometheus implementation of gazestore.MetricsCollector.
package promadapters

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

// MetricsCollector registers one vector per metric name on first use. The label names of a
// metric are fixed by its first observation; later observations fill missing labels with ""
// and drop unknown ones.
type MetricsCollector struct {
	registerer prometheus.Registerer
	namespace  string

	mu         sync.Mutex
	durations  map[string]*prometheus.HistogramVec
	values     map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	labelNames map[string][]string
}

// Option defines a functional option for configuring a MetricsCollector.
type Option func(*MetricsCollector)

// WithNamespace prefixes every metric name with namespace_.
func WithNamespace(namespace string) Option {
	return func(m *MetricsCollector) {
		m.namespace = namespace
	}
}

// NewMetricsCollector creates a MetricsCollector registering on registerer,
// or on prometheus.DefaultRegisterer when registerer is nil.
func NewMetricsCollector(registerer prometheus.Registerer, options ...Option) *MetricsCollector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &MetricsCollector{
		registerer: registerer,
		durations:  make(map[string]*prometheus.HistogramVec),
		values:     make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		labelNames: make(map[string][]string),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec := m.histogramVec(m.durations, metric, labels, "Duration of gazestore operations in seconds.", prometheus.DefBuckets)
	if vec == nil {
		return
	}

	vec.WithLabelValues(m.labelValues(metric, labels)...).Observe(duration.Seconds())
}

func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, exists := m.counters[metric]
	if !exists {
		names := m.defineLabels(metric, labels)
		candidate := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      metric,
			Help:      "Count of gazestore events.",
		}, names)

		vec = register(m.registerer, candidate)
		if vec == nil {
			return
		}
		m.counters[metric] = vec
	}

	vec.WithLabelValues(m.labelValues(metric, labels)...).Inc()
}

func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec := m.histogramVec(m.values, metric, labels, "Values observed by gazestore operations.", prometheus.ExponentialBuckets(1, 4, 8))
	if vec == nil {
		return
	}

	vec.WithLabelValues(m.labelValues(metric, labels)...).Observe(value)
}

func (m *MetricsCollector) histogramVec(
	cache map[string]*prometheus.HistogramVec,
	metric string,
	labels map[string]string,
	help string,
	buckets []float64,
) *prometheus.HistogramVec {

	if vec, exists := cache[metric]; exists {
		return vec
	}

	names := m.defineLabels(metric, labels)
	candidate := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      metric,
		Help:      help,
		Buckets:   buckets,
	}, names)

	vec := register(m.registerer, candidate)
	if vec != nil {
		cache[metric] = vec
	}

	return vec
}

func (m *MetricsCollector) defineLabels(metric string, labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	slices.Sort(names)

	m.labelNames[metric] = names

	return names
}

func (m *MetricsCollector) labelValues(metric string, labels map[string]string) []string {
	names := m.labelNames[metric]
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = labels[name]
	}

	return values
}

// register adopts an already registered collector of the same shape, e.g. when two
// MetricsCollectors share a registry. It returns nil if registration is impossible.
func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	var zero T

	err := registerer.Register(collector)
	if err == nil {
		return collector
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		if existing, ok := alreadyRegistered.ExistingCollector.(T); ok {
			return existing
		}
	}

	return zero
}

var _ gazestore.MetricsCollector = (*MetricsCollector)(nil)
