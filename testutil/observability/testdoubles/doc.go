// Package testdoubles provides spies for the observability interfaces of librarystore:
//   - MetricsCollectorSpy: captures durations, counters and values, with and without context
//   - TracingCollectorSpy: captures started and finished spans
//   - ContextualLoggerSpy: captures log calls per level
//
// All spies are safe for concurrent use, so they can observe handlers under concurrent load.
package testdoubles
