// Package shell is the imperative shell around the library core.
//
// It holds the contracts that every feature slice implements (Command, Query and their handlers),
// the observability helpers the handler wrappers use, the codec that turns domain events into
// activity log records, the authenticated actor carried in the request context and the
// startup retry loop.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
