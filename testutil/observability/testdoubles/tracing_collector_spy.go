package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// SpySpanContext is the span handed out by TracingCollectorSpy.
type SpySpanContext struct {
	name       string
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attributes[key] = value
}

// TracingCollectorSpy captures spans for testing. A span is recorded when it is finished.
type TracingCollectorSpy struct {
	records     []SpySpanRecord
	mu          sync.Mutex
	recordCalls bool
}

// SpySpanRecord represents one finished span.
type SpySpanRecord struct {
	Name            string
	Status          string
	StartAttributes map[string]string
	EndAttributes   map[string]string
	SpanAttributes  map[string]string
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy. With recordCalls false it discards everything.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{recordCalls: recordCalls}
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, librarystore.SpanContext) {
	span := &SpySpanContext{name: name, attributes: map[string]string{}}

	return ctx, &spanWithStart{SpySpanContext: span, start: maps.Clone(attrs)}
}

type spanWithStart struct {
	*SpySpanContext
	start map[string]string
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx librarystore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*spanWithStart)
	if !ok || !s.recordCalls {
		return
	}

	span.mu.Lock()
	record := SpySpanRecord{
		Name:            span.name,
		Status:          status,
		StartAttributes: span.start,
		EndAttributes:   maps.Clone(attrs),
		SpanAttributes:  maps.Clone(span.attributes),
	}
	span.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
}

// GetSpanRecords returns a copy of all finished spans.
func (s *TracingCollectorSpy) GetSpanRecords() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpySpanRecord(nil), s.records...)
}

func (s *TracingCollectorSpy) GetSpanRecordCount() int {
	return len(s.GetSpanRecords())
}

// Reset clears all recorded spans.
func (s *TracingCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

// SpanRecordMatcher provides a fluent interface for checking span records.
type SpanRecordMatcher struct {
	candidates []SpySpanRecord
	status     *string
	start      map[string]string
	end        map[string]string
}

func (s *TracingCollectorSpy) HasSpanRecordForName(name string) *SpanRecordMatcher {
	m := &SpanRecordMatcher{start: map[string]string{}, end: map[string]string{}}
	for _, record := range s.GetSpanRecords() {
		if record.Name == name {
			m.candidates = append(m.candidates, record)
		}
	}

	return m
}

func (m *SpanRecordMatcher) WithStatus(status string) *SpanRecordMatcher {
	m.status = &status
	return m
}

func (m *SpanRecordMatcher) WithStartAttribute(key, value string) *SpanRecordMatcher {
	m.start[key] = value
	return m
}

func (m *SpanRecordMatcher) WithEndAttribute(key, value string) *SpanRecordMatcher {
	m.end[key] = value
	return m
}

func (m *SpanRecordMatcher) Assert() bool {
	for _, record := range m.candidates {
		if m.status != nil && record.Status != *m.status {
			continue
		}

		if hasLabels(record.StartAttributes, m.start) && hasLabels(record.EndAttributes, m.end) {
			return true
		}
	}

	return false
}

var _ librarystore.TracingCollector = (*TracingCollectorSpy)(nil)
