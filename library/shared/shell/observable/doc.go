// Package observable decorates command and query handlers with metrics, tracing and logging.
//
// The wrappers implement the same handler interface as the handler they wrap, so the HTTP layer
// does not know whether it talks to an instrumented handler or a bare one.
package observable
