package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine/internal/adapters"
)

var bookColumns = []any{
	"books.id", "books.title", "books.author_id", "books.category_id", "books.isbn", "books.publisher",
	"books.published_year", "books.summary", "books.language", "books.cover_image", "books.total_copies",
	"books.available_copies", "books.status", "books.created_at", "books.updated_at",
}

var bookViewColumns = append(append([]any{}, bookColumns...),
	goqu.I("authors.name").As("author_name"),
	goqu.I("authors.nationality").As("author_nationality"),
	goqu.I("authors.bio").As("author_bio"),
	goqu.I("categories.name").As("category_name"),
	goqu.I("categories.description").As("category_description"),
)

var authorColumns = []any{"id", "name", "bio", "nationality", "birth_year", "death_year", "created_at"}

var categoryColumns = []any{"id", "name", "description", "created_at"}

func scanBook(rows adapters.DBRows, extra ...any) (librarystore.Book, error) {
	var book librarystore.Book
	var id, authorID, categoryID string
	var isbn sql.NullString

	dest := []any{
		&id, &book.Title, &authorID, &categoryID, &isbn, &book.Publisher, &book.PublishedYear, &book.Summary,
		&book.Language, &book.CoverImage, &book.TotalCopies, &book.AvailableCopies, &book.Status,
		&book.CreatedAt, &book.UpdatedAt,
	}

	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return librarystore.Book{}, err
	}

	err := parseUUIDs(
		uuidTarget{raw: id, target: &book.ID},
		uuidTarget{raw: authorID, target: &book.AuthorID},
		uuidTarget{raw: categoryID, target: &book.CategoryID},
	)
	if err != nil {
		return librarystore.Book{}, err
	}

	book.ISBN = isbn.String
	book.CreatedAt = book.CreatedAt.UTC()
	book.UpdatedAt = book.UpdatedAt.UTC()

	return book, nil
}

func scanBookView(rows adapters.DBRows) (librarystore.BookView, error) {
	var view librarystore.BookView

	book, err := scanBook(rows,
		&view.AuthorName, &view.AuthorNationality, &view.AuthorBio, &view.CategoryName, &view.CategoryDescription)
	if err != nil {
		return librarystore.BookView{}, err
	}

	view.Book = book

	return view, nil
}

func scanAuthor(rows adapters.DBRows) (librarystore.Author, error) {
	var author librarystore.Author
	var id string
	var birthYear, deathYear sql.NullInt64

	err := rows.Scan(&id, &author.Name, &author.Bio, &author.Nationality, &birthYear, &deathYear, &author.CreatedAt)
	if err != nil {
		return librarystore.Author{}, err
	}

	if err = parseUUIDs(uuidTarget{raw: id, target: &author.ID}); err != nil {
		return librarystore.Author{}, err
	}

	author.BirthYear = fromNullInt(birthYear)
	author.DeathYear = fromNullInt(deathYear)
	author.CreatedAt = author.CreatedAt.UTC()

	return author, nil
}

func scanCategory(rows adapters.DBRows) (librarystore.Category, error) {
	var category librarystore.Category
	var id string

	if err := rows.Scan(&id, &category.Name, &category.Description, &category.CreatedAt); err != nil {
		return librarystore.Category{}, err
	}

	if err := parseUUIDs(uuidTarget{raw: id, target: &category.ID}); err != nil {
		return librarystore.Category{}, err
	}

	category.CreatedAt = category.CreatedAt.UTC()

	return category, nil
}

func (e executor) booksWithDisplayFields() *goqu.SelectDataset {
	return e.dialect.goqu().
		From(goqu.T(tableBooks)).
		Join(goqu.T(tableAuthors), goqu.On(goqu.I("authors.id").Eq(goqu.I("books.author_id")))).
		Join(goqu.T(tableCategories), goqu.On(goqu.I("categories.id").Eq(goqu.I("books.category_id")))).
		Select(bookViewColumns...)
}

// BookByID returns the stored book or librarystore.ErrRecordNotFound.
func (e executor) BookByID(ctx context.Context, bookID uuid.UUID) (librarystore.Book, error) {
	var book librarystore.Book

	selectStmt := e.dialect.goqu().
		From(tableBooks).
		Select(bookColumns...).
		Where(goqu.I("books.id").Eq(bookID.String()))

	err := e.queryOne(ctx, "book_by_id", selectStmt, func(rows adapters.DBRows) error {
		var scanErr error
		book, scanErr = scanBook(rows)
		return scanErr
	})

	return book, err
}

// BookViewByID returns the book joined with its author and category display fields.
func (e executor) BookViewByID(ctx context.Context, bookID uuid.UUID) (librarystore.BookView, error) {
	var view librarystore.BookView

	selectStmt := e.booksWithDisplayFields().Where(goqu.I("books.id").Eq(bookID.String()))

	err := e.queryOne(ctx, "book_view_by_id", selectStmt, func(rows adapters.DBRows) error {
		var scanErr error
		view, scanErr = scanBookView(rows)
		return scanErr
	})

	return view, err
}

// SearchBooks returns one page of the books matching filter, sorted by title and id,
// together with the total number of matches.
func (e executor) SearchBooks(ctx context.Context, filter librarystore.BookFilter) ([]librarystore.BookView, int, error) {
	conditions := e.bookFilterConditions(filter)

	total, err := e.count(ctx, "count_books", e.dialect.goqu().From(tableBooks).Where(conditions...))
	if err != nil {
		return nil, 0, err
	}

	page := filter.Page()
	selectStmt := e.booksWithDisplayFields().
		Where(conditions...).
		Order(goqu.I("books.title").Asc(), goqu.I("books.id").Asc()).
		Limit(uint(page.Size())).
		Offset(uint(page.Offset()))

	books := make([]librarystore.BookView, 0, page.Size())

	err = e.queryRows(ctx, "search_books", selectStmt, func(rows adapters.DBRows) error {
		view, scanErr := scanBookView(rows)
		if scanErr != nil {
			return scanErr
		}

		books = append(books, view)

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (e executor) bookFilterConditions(filter librarystore.BookFilter) []exp.Expression {
	conditions := make([]exp.Expression, 0, 3)

	if filter.HasSearchTerm() {
		conditions = append(conditions, goqu.Or(
			e.dialect.containsFold(goqu.I("books.title"), filter.SearchTerm()),
			e.dialect.containsFold(goqu.I("books.summary"), filter.SearchTerm()),
		))
	}

	if filter.HasAuthorID() {
		conditions = append(conditions, goqu.I("books.author_id").Eq(filter.AuthorID().String()))
	}

	if filter.HasCategoryID() {
		conditions = append(conditions, goqu.I("books.category_id").Eq(filter.CategoryID().String()))
	}

	return conditions
}

// BookIDs returns the ids of all books, sorted by title.
func (e executor) BookIDs(ctx context.Context) ([]uuid.UUID, error) {
	selectStmt := e.dialect.goqu().
		From(tableBooks).
		Select("id").
		Order(goqu.C("title").Asc(), goqu.C("id").Asc())

	ids := make([]uuid.UUID, 0)

	err := e.queryRows(ctx, "book_ids", selectStmt, func(rows adapters.DBRows) error {
		var raw string
		var id uuid.UUID

		if scanErr := rows.Scan(&raw); scanErr != nil {
			return scanErr
		}

		if parseErr := parseUUIDs(uuidTarget{raw: raw, target: &id}); parseErr != nil {
			return parseErr
		}

		ids = append(ids, id)

		return nil
	})

	return ids, err
}

// InsertBook stores a new book. A duplicate isbn yields librarystore.ErrDuplicateISBN.
func (e executor) InsertBook(ctx context.Context, book librarystore.Book) error {
	insertStmt := e.dialect.goqu().
		Insert(tableBooks).
		Rows(goqu.Record{
			"id":               book.ID.String(),
			"title":            book.Title,
			"author_id":        book.AuthorID.String(),
			"category_id":      book.CategoryID.String(),
			"isbn":             nullableString(book.ISBN),
			"publisher":        book.Publisher,
			"published_year":   book.PublishedYear,
			"summary":          book.Summary,
			"language":         book.Language,
			"cover_image":      book.CoverImage,
			"total_copies":     book.TotalCopies,
			"available_copies": book.AvailableCopies,
			"status":           book.Status,
			"created_at":       dbTime(book.CreatedAt),
			"updated_at":       dbTime(book.UpdatedAt),
		})

	_, err := e.exec(ctx, "insert_book", insertStmt)

	return err
}

// UpdateBook is a compare-and-set on the copy counters and status that were read into expected.
func (e executor) UpdateBook(ctx context.Context, expected librarystore.Book, updated librarystore.Book) error {
	updateStmt := e.dialect.goqu().
		Update(tableBooks).
		Set(goqu.Record{
			"title":            updated.Title,
			"category_id":      updated.CategoryID.String(),
			"isbn":             nullableString(updated.ISBN),
			"publisher":        updated.Publisher,
			"published_year":   updated.PublishedYear,
			"summary":          updated.Summary,
			"language":         updated.Language,
			"cover_image":      updated.CoverImage,
			"total_copies":     updated.TotalCopies,
			"available_copies": updated.AvailableCopies,
			"status":           updated.Status,
			"updated_at":       dbTime(updated.UpdatedAt),
		}).
		Where(
			goqu.C("id").Eq(expected.ID.String()),
			goqu.C("total_copies").Eq(expected.TotalCopies),
			goqu.C("available_copies").Eq(expected.AvailableCopies),
			goqu.C("status").Eq(expected.Status),
		)

	rowsAffected, err := e.exec(ctx, "update_book", updateStmt)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return librarystore.ErrConcurrencyConflict
	}

	return nil
}

// DeleteBook removes a book. A book still referenced by loans yields librarystore.ErrForeignKeyViolation.
func (e executor) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	deleteStmt := e.dialect.goqu().
		Delete(tableBooks).
		Where(goqu.C("id").Eq(bookID.String()))

	rowsAffected, err := e.exec(ctx, "delete_book", deleteStmt)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return librarystore.ErrRecordNotFound
	}

	return nil
}

func (e executor) TakeCopy(ctx context.Context, bookID uuid.UUID, now time.Time) (bool, error) {
	updateStmt := e.dialect.goqu().
		Update(tableBooks).
		Set(goqu.Record{
			"available_copies": goqu.L("available_copies - 1"),
			"status":           goqu.L("CASE WHEN available_copies - 1 > 0 THEN ? ELSE ? END", librarystore.BookStatusAvailable, librarystore.BookStatusBorrowed),
			"updated_at":       dbTime(now),
		}).
		Where(
			goqu.C("id").Eq(bookID.String()),
			goqu.C("available_copies").Gt(0),
			goqu.C("status").Neq(librarystore.BookStatusMaintenance),
		)

	rowsAffected, err := e.exec(ctx, "take_copy", updateStmt)

	return rowsAffected == 1, err
}

func (e executor) ReturnCopy(ctx context.Context, bookID uuid.UUID, now time.Time) (bool, error) {
	updateStmt := e.dialect.goqu().
		Update(tableBooks).
		Set(goqu.Record{
			"available_copies": goqu.L("available_copies + 1"),
			"status":           goqu.L("CASE WHEN status = ? THEN status ELSE ? END", librarystore.BookStatusMaintenance, librarystore.BookStatusAvailable),
			"updated_at":       dbTime(now),
		}).
		Where(
			goqu.C("id").Eq(bookID.String()),
			goqu.C("available_copies").Lt(goqu.I("total_copies")),
		)

	rowsAffected, err := e.exec(ctx, "return_copy", updateStmt)

	return rowsAffected == 1, err
}

func (e executor) RestoreCopies(ctx context.Context, bookID uuid.UUID, now time.Time) (bool, error) {
	updateStmt := e.dialect.goqu().
		Update(tableBooks).
		Set(goqu.Record{
			"available_copies": goqu.L("total_copies"),
			"status":           goqu.L("CASE WHEN total_copies > 0 THEN ? ELSE ? END", librarystore.BookStatusAvailable, librarystore.BookStatusBorrowed),
			"updated_at":       dbTime(now),
		}).
		Where(goqu.C("id").Eq(bookID.String()))

	rowsAffected, err := e.exec(ctx, "restore_copies", updateStmt)

	return rowsAffected == 1, err
}

func (e executor) AuthorByID(ctx context.Context, authorID uuid.UUID) (librarystore.Author, error) {
	return e.authorWhere(ctx, "author_by_id", goqu.C("id").Eq(authorID.String()))
}

func (e executor) authorWhere(ctx context.Context, operation string, condition exp.Expression) (librarystore.Author, error) {
	var author librarystore.Author

	selectStmt := e.dialect.goqu().From(tableAuthors).Select(authorColumns...).Where(condition)

	err := e.queryOne(ctx, operation, selectStmt, func(rows adapters.DBRows) error {
		var scanErr error
		author, scanErr = scanAuthor(rows)
		return scanErr
	})

	return author, err
}

// InsertAuthor stores a new author. A duplicate name yields librarystore.ErrDuplicateAuthorName.
func (e executor) InsertAuthor(ctx context.Context, author librarystore.Author) error {
	insertStmt := e.dialect.goqu().
		Insert(tableAuthors).
		Rows(goqu.Record{
			"id":          author.ID.String(),
			"name":        author.Name,
			"bio":         author.Bio,
			"nationality": author.Nationality,
			"birth_year":  nullableInt(author.BirthYear),
			"death_year":  nullableInt(author.DeathYear),
			"created_at":  dbTime(author.CreatedAt),
		})

	_, err := e.exec(ctx, "insert_author", insertStmt)

	return err
}

// FindOrCreateAuthor returns the author with exactly this name, creating it if needed.
// The insert ignores a unique conflict, so concurrent calls with the same name converge on one row.
func (e executor) FindOrCreateAuthor(ctx context.Context, name string, now time.Time) (librarystore.Author, error) {
	insertStmt := e.dialect.goqu().
		Insert(tableAuthors).
		Rows(goqu.Record{"id": uuid.NewString(), "name": name, "created_at": dbTime(now)}).
		OnConflict(goqu.DoNothing())

	if _, err := e.exec(ctx, "find_or_create_author", insertStmt); err != nil {
		return librarystore.Author{}, err
	}

	return e.authorWhere(ctx, "author_by_name", goqu.C("name").Eq(name))
}

// ListAuthors returns all authors sorted by name.
func (e executor) ListAuthors(ctx context.Context) ([]librarystore.Author, error) {
	selectStmt := e.dialect.goqu().From(tableAuthors).Select(authorColumns...).Order(goqu.C("name").Asc())

	authors := make([]librarystore.Author, 0)

	err := e.queryRows(ctx, "list_authors", selectStmt, func(rows adapters.DBRows) error {
		author, scanErr := scanAuthor(rows)
		if scanErr != nil {
			return scanErr
		}

		authors = append(authors, author)

		return nil
	})

	return authors, err
}

func (e executor) CategoryByID(ctx context.Context, categoryID uuid.UUID) (librarystore.Category, error) {
	return e.categoryWhere(ctx, "category_by_id", goqu.C("id").Eq(categoryID.String()))
}

func (e executor) categoryWhere(ctx context.Context, operation string, condition exp.Expression) (librarystore.Category, error) {
	var category librarystore.Category

	selectStmt := e.dialect.goqu().From(tableCategories).Select(categoryColumns...).Where(condition)

	err := e.queryOne(ctx, operation, selectStmt, func(rows adapters.DBRows) error {
		var scanErr error
		category, scanErr = scanCategory(rows)
		return scanErr
	})

	return category, err
}

// FindOrCreateCategory returns the category with exactly this name, creating it if needed.
func (e executor) FindOrCreateCategory(ctx context.Context, name string, now time.Time) (librarystore.Category, error) {
	insertStmt := e.dialect.goqu().
		Insert(tableCategories).
		Rows(goqu.Record{"id": uuid.NewString(), "name": name, "created_at": dbTime(now)}).
		OnConflict(goqu.DoNothing())

	if _, err := e.exec(ctx, "find_or_create_category", insertStmt); err != nil {
		return librarystore.Category{}, err
	}

	return e.categoryWhere(ctx, "category_by_name", goqu.C("name").Eq(name))
}

// InsertCategory stores a new category. A duplicate name yields librarystore.ErrDuplicateCategoryName.
func (e executor) InsertCategory(ctx context.Context, category librarystore.Category) error {
	insertStmt := e.dialect.goqu().
		Insert(tableCategories).
		Rows(goqu.Record{
			"id":          category.ID.String(),
			"name":        category.Name,
			"description": category.Description,
			"created_at":  dbTime(category.CreatedAt),
		})

	_, err := e.exec(ctx, "insert_category", insertStmt)

	return err
}

// ListCategories returns all categories sorted by name.
func (e executor) ListCategories(ctx context.Context) ([]librarystore.Category, error) {
	selectStmt := e.dialect.goqu().From(tableCategories).Select(categoryColumns...).Order(goqu.C("name").Asc())

	categories := make([]librarystore.Category, 0)

	err := e.queryRows(ctx, "list_categories", selectStmt, func(rows adapters.DBRows) error {
		category, scanErr := scanCategory(rows)
		if scanErr != nil {
			return scanErr
		}

		categories = append(categories, category)

		return nil
	})

	return categories, err
}

// count runs a COUNT(*) over the given dataset.
func (e executor) count(ctx context.Context, operation string, dataset *goqu.SelectDataset) (int, error) {
	var total int64

	err := e.queryOne(ctx, operation, dataset.Select(goqu.COUNT(goqu.Star())), func(rows adapters.DBRows) error {
		return rows.Scan(&total)
	})
	if err != nil && !errors.Is(err, librarystore.ErrRecordNotFound) {
		return 0, err
	}

	return int(total), nil
}
