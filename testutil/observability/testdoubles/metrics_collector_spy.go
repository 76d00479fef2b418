package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

const (
	kindDuration = "duration"
	kindCounter  = "counter"
	kindValue    = "value"
)

// MetricsCollectorSpy captures metrics calls for testing. It implements the contextual variant,
// so callers that type-assert for it take the context path.
type MetricsCollectorSpy struct {
	records     []SpyMetricRecord
	mu          sync.Mutex
	recordCalls bool
}

// SpyMetricRecord represents one recorded call. Duration is set for durations, Value for values.
type SpyMetricRecord struct {
	Kind     string
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy. With recordCalls false it discards everything.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{recordCalls: recordCalls}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: kindDuration, Metric: metric, Duration: duration, Labels: labels})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: kindCounter, Metric: metric, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: kindValue, Metric: metric, Value: value, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

func (s *MetricsCollectorSpy) record(record SpyMetricRecord) {
	if !s.recordCalls {
		return
	}

	// copy, callers may reuse their label maps
	record.Labels = maps.Clone(record.Labels)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
}

// Reset clears all recorded calls.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

// GetRecords returns a copy of all records.
func (s *MetricsCollectorSpy) GetRecords() []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyMetricRecord(nil), s.records...)
}

func (s *MetricsCollectorSpy) GetDurationCallCount(metric string) int {
	return s.count(kindDuration, metric)
}

func (s *MetricsCollectorSpy) GetCounterCallCount(metric string) int {
	return s.count(kindCounter, metric)
}

func (s *MetricsCollectorSpy) GetValueCallCount(metric string) int {
	return s.count(kindValue, metric)
}

func (s *MetricsCollectorSpy) count(kind, metric string) int {
	n := 0
	for _, record := range s.GetRecords() {
		if record.Kind == kind && record.Metric == metric {
			n++
		}
	}

	return n
}

// MetricRecordMatcher provides a fluent interface for checking metric records.
// Assert is true if at least one record of the metric carries all requested labels.
type MetricRecordMatcher struct {
	candidates []SpyMetricRecord
	labels     map[string]string
}

func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcher(kindDuration, metric)
}

func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcher(kindCounter, metric)
}

func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcher(kindValue, metric)
}

func (s *MetricsCollectorSpy) matcher(kind, metric string) *MetricRecordMatcher {
	m := &MetricRecordMatcher{labels: map[string]string{}}
	for _, record := range s.GetRecords() {
		if record.Kind == kind && record.Metric == metric {
			m.candidates = append(m.candidates, record)
		}
	}

	return m
}

func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	m.labels[key] = value
	return m
}

func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

func (m *MetricRecordMatcher) Assert() bool {
	for _, record := range m.candidates {
		if hasLabels(record.Labels, m.labels) {
			return true
		}
	}

	return false
}

func hasLabels(actual, expected map[string]string) bool {
	for key, value := range expected {
		if actual[key] != value {
			return false
		}
	}

	return true
}

var _ librarystore.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)
