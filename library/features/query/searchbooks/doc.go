// Package searchbooks implements the catalog search.
//
// The search term matches title or summary as a case-insensitive plain substring; "%" and "_" have no
// special meaning. Author and category filters are exact id matches. Results are sorted by title, then id.
package searchbooks
