// Package removebook implements the Remove Book use case.
//
// A book can only leave the catalog when none of its copies is lent out. Its returned loans are
// deleted together with it, in the same transaction.
package removebook
