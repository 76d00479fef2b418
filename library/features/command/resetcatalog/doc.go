// Package resetcatalog implements the bulk reset of the circulation state.
//
// Every book is reset in its own small transaction: its loans are deleted and all copies go back on the
// shelf. A failing book is reported and skipped, the batch continues.
package resetcatalog
