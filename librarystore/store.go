package librarystore

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tx lists the operations available inside a transaction. Every mutation that touches more than
// one record (borrow, return, book removal, per-book reset) runs through it.
//
// Conditional writes report whether they matched a row instead of failing, so callers can re-derive
// the business reason (no copies left, loan already returned) from a zero-row outcome.
type Tx interface {
	BookByID(ctx context.Context, bookID uuid.UUID) (Book, error)
	AuthorByID(ctx context.Context, authorID uuid.UUID) (Author, error)
	CategoryByID(ctx context.Context, categoryID uuid.UUID) (Category, error)
	InsertAuthor(ctx context.Context, author Author) error
	FindOrCreateAuthor(ctx context.Context, name string, now time.Time) (Author, error)
	FindOrCreateCategory(ctx context.Context, name string, now time.Time) (Category, error)
	InsertBook(ctx context.Context, book Book) error

	// UpdateBook writes updated only if the stored copy counters and status still equal the
	// ones in expected, otherwise it returns ErrConcurrencyConflict.
	UpdateBook(ctx context.Context, expected Book, updated Book) error
	DeleteBook(ctx context.Context, bookID uuid.UUID) error

	// TakeCopy decrements availableCopies if it is positive and the book is not under maintenance.
	TakeCopy(ctx context.Context, bookID uuid.UUID, now time.Time) (bool, error)

	// ReturnCopy increments availableCopies if it is below totalCopies.
	ReturnCopy(ctx context.Context, bookID uuid.UUID, now time.Time) (bool, error)

	// RestoreCopies sets availableCopies to totalCopies and clears any status override.
	RestoreCopies(ctx context.Context, bookID uuid.UUID, now time.Time) (bool, error)

	HasActiveLoan(ctx context.Context, userID uuid.UUID, bookID uuid.UUID) (bool, error)
	CountActiveLoansForBook(ctx context.Context, bookID uuid.UUID) (int, error)
	LoanByID(ctx context.Context, loanID uuid.UUID) (Loan, error)
	InsertLoan(ctx context.Context, loan Loan) error

	// CloseLoan moves an active loan to returned. It reports false if the loan was not active.
	CloseLoan(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) (bool, error)
	DeleteLoansForBook(ctx context.Context, bookID uuid.UUID) (int64, error)
	DeleteReturnedLoansForBook(ctx context.Context, bookID uuid.UUID) (int64, error)

	InsertUser(ctx context.Context, user User) error

	AppendActivity(ctx context.Context, records ...ActivityRecord) error
}

// TxFunc is the unit of work passed to WithTransaction.
type TxFunc func(tx Tx) error

// Transactor runs a TxFunc in one database transaction. The transaction commits if fn returns nil
// and rolls back otherwise, returning fn's error unchanged.
type Transactor interface {
	WithTransaction(ctx context.Context, fn TxFunc) error
}
