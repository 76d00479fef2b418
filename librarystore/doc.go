// Package librarystore defines the storage-facing model of the library circulation service.
//
// It holds the persisted records (books, authors, categories, users, loans, activity entries),
// the fluent BookFilter builder used by the catalog search, offset paging, the sentinel errors
// returned by storage engines and the Tx contract that every engine implements so that loan
// state and copy counters change in one transactional boundary.
//
// The package has no knowledge of SQL. The sqlengine sub-package translates filters into
// dialect-specific statements for Postgres and SQLite.
//
// Observability is optional and dependency free: engines accept the Logger, ContextualLogger,
// MetricsCollector and TracingCollector interfaces declared here. The oteladapters sub-package
// provides OpenTelemetry implementations.
package librarystore
