// Package core contains the functional core of the library circulation service:
// the error taxonomy, the loan policy (due dates, overdue days, fines), the inventory arithmetic
// for copy counters and the domain events that the decide functions of the features produce.
//
// Nothing in here performs I/O. Time is always passed in, never read from the clock.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
