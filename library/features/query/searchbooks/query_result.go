package searchbooks

import (
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Result is one page of matching books.
type Result struct {
	Books       []librarystore.BookView
	Total       int
	CurrentPage int
	TotalPages  int
}
