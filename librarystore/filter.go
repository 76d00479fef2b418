package librarystore

import (
	"strings"

	"github.com/google/uuid"
)

/***** BookFilter *****/

// BookFilter narrows a catalog search. All set criteria are ANDed.
type BookFilter struct {
	searchTerm string
	authorID   uuid.UUID
	categoryID uuid.UUID
	page       Page
}

// SearchTerm is matched case-insensitively as a plain substring against title OR summary.
func (f BookFilter) SearchTerm() string {
	return f.searchTerm
}

func (f BookFilter) HasSearchTerm() bool {
	return f.searchTerm != ""
}

func (f BookFilter) AuthorID() uuid.UUID {
	return f.authorID
}

func (f BookFilter) HasAuthorID() bool {
	return f.authorID != uuid.Nil
}

func (f BookFilter) CategoryID() uuid.UUID {
	return f.categoryID
}

func (f BookFilter) HasCategoryID() bool {
	return f.categoryID != uuid.Nil
}

func (f BookFilter) Page() Page {
	return f.page
}

/***** BookFilterBuilder *****/

// BookFilterBuilder builds a BookFilter. The zero criteria are ignored, so a builder that only
// receives empty input produces a filter matching every book.
//
//	filter := librarystore.BuildBookFilter().
//		WithSearchTerm("dune").
//		WithCategoryID(categoryID).
//		OnPage(librarystore.BuildPage(2, 20)).
//		Finalize()
type BookFilterBuilder interface {
	// WithSearchTerm sets the free text term. Surrounding whitespace is trimmed.
	WithSearchTerm(term string) BookFilterBuilder

	// WithAuthorID restricts the result to one author. uuid.Nil is ignored.
	WithAuthorID(authorID uuid.UUID) BookFilterBuilder

	// WithCategoryID restricts the result to one category. uuid.Nil is ignored.
	WithCategoryID(categoryID uuid.UUID) BookFilterBuilder

	// OnPage selects the result window. Without it, DefaultPage() is used.
	OnPage(page Page) BookFilterBuilder

	// Finalize returns the BookFilter.
	Finalize() BookFilter
}

type bookFilterBuilder struct {
	filter BookFilter
}

// BuildBookFilter starts a new BookFilterBuilder.
func BuildBookFilter() BookFilterBuilder {
	return &bookFilterBuilder{
		filter: BookFilter{page: DefaultPage()},
	}
}

func (b *bookFilterBuilder) WithSearchTerm(term string) BookFilterBuilder {
	b.filter.searchTerm = strings.TrimSpace(term)

	return b
}

func (b *bookFilterBuilder) WithAuthorID(authorID uuid.UUID) BookFilterBuilder {
	b.filter.authorID = authorID

	return b
}

func (b *bookFilterBuilder) WithCategoryID(categoryID uuid.UUID) BookFilterBuilder {
	b.filter.categoryID = categoryID

	return b
}

func (b *bookFilterBuilder) OnPage(page Page) BookFilterBuilder {
	b.filter.page = page

	return b
}

func (b *bookFilterBuilder) Finalize() BookFilter {
	return b.filter
}
