package helper

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

// MetricsCollectorSpy is a gazestore.MetricsCollector that captures every call.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []SpyRecord
	counters  []SpyRecord
	values    []SpyRecord
}

// SpyRecord is one captured metrics call.
type SpyRecord struct {
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durations = append(s.durations, SpyRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = append(s.counters, SpyRecord{Metric: metric, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, SpyRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

// Durations returns the captured RecordDuration calls for a metric.
func (s *MetricsCollectorSpy) Durations(metric string) []SpyRecord {
	return s.filter(&s.durations, metric)
}

// Counters returns the captured IncrementCounter calls for a metric.
func (s *MetricsCollectorSpy) Counters(metric string) []SpyRecord {
	return s.filter(&s.counters, metric)
}

// Values returns the captured RecordValue calls for a metric.
func (s *MetricsCollectorSpy) Values(metric string) []SpyRecord {
	return s.filter(&s.values, metric)
}

func (s *MetricsCollectorSpy) filter(records *[]SpyRecord, metric string) []SpyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SpyRecord, 0)
	for _, r := range *records {
		if r.Metric == metric {
			out = append(out, r)
		}
	}

	return out
}

var _ gazestore.MetricsCollector = (*MetricsCollectorSpy)(nil)

// TracingCollectorSpy is a gazestore.TracingCollector that captures finished spans.
type TracingCollectorSpy struct {
	mu       sync.Mutex
	finished []*SpanSpy
}

// SpanSpy is a captured span.
type SpanSpy struct {
	Name   string
	Status string
	Attrs  map[string]string
	mu     sync.Mutex
}

func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (t *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, gazestore.SpanContext) {

	span := &SpanSpy{Name: name, Attrs: maps.Clone(attrs)}
	if span.Attrs == nil {
		span.Attrs = make(map[string]string)
	}

	return ctx, span
}

func (t *TracingCollectorSpy) FinishSpan(spanCtx gazestore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpanSpy)
	if !ok {
		return
	}

	span.SetStatus(status)
	for k, v := range attrs {
		span.AddAttribute(k, v)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.finished = append(t.finished, span)
}

// Finished returns the finished spans with the given name.
func (t *TracingCollectorSpy) Finished(name string) []*SpanSpy {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*SpanSpy, 0)
	for _, s := range t.finished {
		if s.Name == name {
			out = append(out, s)
		}
	}

	return out
}

func (s *SpanSpy) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = status
}

func (s *SpanSpy) AddAttribute(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attrs[key] = value
}

var _ gazestore.TracingCollector = (*TracingCollectorSpy)(nil)
