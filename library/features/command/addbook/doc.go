// Package addbook implements the Add Book use cases.
//
// Command adds a book for an existing author and category. AutoCreateCommand names the author and the
// category instead and creates whichever does not exist yet. Both share the validation and defaults in
// Decide: the published year defaults to the year of the request, the book starts with one copy and
// all copies are on the shelf.
package addbook
