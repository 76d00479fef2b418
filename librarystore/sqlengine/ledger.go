package sqlengine

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine/internal/adapters"
)

var loanColumns = []any{
	"loans.id", "loans.user_id", "loans.book_id", "loans.borrow_date", "loans.due_date", "loans.return_date",
	"loans.status", "loans.notes",
}

var loanViewColumns = append(append([]any{}, loanColumns...),
	goqu.I("users.name").As("user_name"),
	goqu.I("users.email").As("user_email"),
	goqu.I("users.university_id").As("user_university_id"),
	goqu.I("books.title").As("book_title"),
	goqu.I("books.isbn").As("book_isbn"),
	goqu.I("authors.name").As("author_name"),
)

func scanLoan(rows adapters.DBRows, extra ...any) (librarystore.Loan, error) {
	var loan librarystore.Loan
	var id, userID, bookID string
	var returnDate sql.NullTime

	dest := []any{&id, &userID, &bookID, &loan.BorrowDate, &loan.DueDate, &returnDate, &loan.Status, &loan.Notes}

	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return librarystore.Loan{}, err
	}

	err := parseUUIDs(
		uuidTarget{raw: id, target: &loan.ID},
		uuidTarget{raw: userID, target: &loan.UserID},
		uuidTarget{raw: bookID, target: &loan.BookID},
	)
	if err != nil {
		return librarystore.Loan{}, err
	}

	loan.BorrowDate = loan.BorrowDate.UTC()
	loan.DueDate = loan.DueDate.UTC()
	loan.ReturnDate = fromNullTime(returnDate)

	return loan, nil
}

func scanLoanView(rows adapters.DBRows) (librarystore.LoanView, error) {
	var view librarystore.LoanView
	var isbn sql.NullString

	loan, err := scanLoan(rows,
		&view.UserName, &view.UserEmail, &view.UniversityID, &view.BookTitle, &isbn, &view.AuthorName)
	if err != nil {
		return librarystore.LoanView{}, err
	}

	view.Loan = loan
	view.BookISBN = isbn.String

	return view, nil
}

func (e executor) loansWithDisplayFields() *goqu.SelectDataset {
	return e.dialect.goqu().
		From(goqu.T(tableLoans)).
		Join(goqu.T(tableUsers), goqu.On(goqu.I("users.id").Eq(goqu.I("loans.user_id")))).
		Join(goqu.T(tableBooks), goqu.On(goqu.I("books.id").Eq(goqu.I("loans.book_id")))).
		Join(goqu.T(tableAuthors), goqu.On(goqu.I("authors.id").Eq(goqu.I("books.author_id")))).
		Select(loanViewColumns...)
}

func (e executor) collectLoanViews(ctx context.Context, operation string, selectStmt *goqu.SelectDataset) ([]librarystore.LoanView, error) {
	loans := make([]librarystore.LoanView, 0)

	err := e.queryRows(ctx, operation, selectStmt, func(rows adapters.DBRows) error {
		view, scanErr := scanLoanView(rows)
		if scanErr != nil {
			return scanErr
		}

		loans = append(loans, view)

		return nil
	})

	return loans, err
}

// HasActiveLoan reports whether the user currently holds an active loan of the book.
func (e executor) HasActiveLoan(ctx context.Context, userID uuid.UUID, bookID uuid.UUID) (bool, error) {
	total, err := e.count(ctx, "has_active_loan", e.dialect.goqu().From(tableLoans).Where(
		goqu.C("user_id").Eq(userID.String()),
		goqu.C("book_id").Eq(bookID.String()),
		goqu.C("status").Eq(librarystore.LoanStatusActive),
	))

	return total > 0, err
}

func (e executor) CountActiveLoansForBook(ctx context.Context, bookID uuid.UUID) (int, error) {
	return e.count(ctx, "count_active_loans_for_book", e.dialect.goqu().From(tableLoans).Where(
		goqu.C("book_id").Eq(bookID.String()),
		goqu.C("status").Eq(librarystore.LoanStatusActive),
	))
}

// LoanByID returns the stored loan or librarystore.ErrRecordNotFound.
func (e executor) LoanByID(ctx context.Context, loanID uuid.UUID) (librarystore.Loan, error) {
	var loan librarystore.Loan

	selectStmt := e.dialect.goqu().
		From(tableLoans).
		Select(loanColumns...).
		Where(goqu.I("loans.id").Eq(loanID.String()))

	err := e.queryOne(ctx, "loan_by_id", selectStmt, func(rows adapters.DBRows) error {
		var scanErr error
		loan, scanErr = scanLoan(rows)
		return scanErr
	})

	return loan, err
}

// InsertLoan stores a new loan. A second active loan for the same user and book yields
// librarystore.ErrDuplicateActiveLoan.
func (e executor) InsertLoan(ctx context.Context, loan librarystore.Loan) error {
	insertStmt := e.dialect.goqu().
		Insert(tableLoans).
		Rows(goqu.Record{
			"id":          loan.ID.String(),
			"user_id":     loan.UserID.String(),
			"book_id":     loan.BookID.String(),
			"borrow_date": dbTime(loan.BorrowDate),
			"due_date":    dbTime(loan.DueDate),
			"return_date": nullableTime(loan.ReturnDate),
			"status":      loan.Status,
			"notes":       loan.Notes,
		})

	_, err := e.exec(ctx, "insert_loan", insertStmt)

	return err
}

func (e executor) CloseLoan(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) (bool, error) {
	updateStmt := e.dialect.goqu().
		Update(tableLoans).
		Set(goqu.Record{
			"status":      librarystore.LoanStatusReturned,
			"return_date": dbTime(returnedAt),
		}).
		Where(
			goqu.C("id").Eq(loanID.String()),
			goqu.C("status").Eq(librarystore.LoanStatusActive),
		)

	rowsAffected, err := e.exec(ctx, "close_loan", updateStmt)

	return rowsAffected == 1, err
}

// DeleteLoansForBook deletes every loan of the book, whatever its status.
func (e executor) DeleteLoansForBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	deleteStmt := e.dialect.goqu().
		Delete(tableLoans).
		Where(goqu.C("book_id").Eq(bookID.String()))

	return e.exec(ctx, "delete_loans_for_book", deleteStmt)
}

// DeleteReturnedLoansForBook deletes the closed loan history of a book.
func (e executor) DeleteReturnedLoansForBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	deleteStmt := e.dialect.goqu().
		Delete(tableLoans).
		Where(
			goqu.C("book_id").Eq(bookID.String()),
			goqu.C("status").Eq(librarystore.LoanStatusReturned),
		)

	return e.exec(ctx, "delete_returned_loans_for_book", deleteStmt)
}

// LoansByUser returns all loans of one user, newest first.
func (e executor) LoansByUser(ctx context.Context, userID uuid.UUID) ([]librarystore.LoanView, error) {
	selectStmt := e.loansWithDisplayFields().
		Where(goqu.I("loans.user_id").Eq(userID.String())).
		Order(newestFirst()...)

	return e.collectLoanViews(ctx, "loans_by_user", selectStmt)
}

// AllLoans returns every loan, newest first.
func (e executor) AllLoans(ctx context.Context) ([]librarystore.LoanView, error) {
	return e.collectLoanViews(ctx, "all_loans", e.loansWithDisplayFields().Order(newestFirst()...))
}

// LoansPage returns one page of all loans, newest first, together with the total number of loans.
func (e executor) LoansPage(ctx context.Context, page librarystore.Page) ([]librarystore.LoanView, int, error) {
	total, err := e.count(ctx, "count_loans", e.dialect.goqu().From(tableLoans))
	if err != nil {
		return nil, 0, err
	}

	selectStmt := e.loansWithDisplayFields().
		Order(newestFirst()...).
		Limit(uint(page.Size())).
		Offset(uint(page.Offset()))

	loans, err := e.collectLoanViews(ctx, "loans_page", selectStmt)
	if err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

// OverdueLoans returns the active loans whose due date lies before now, oldest due date first.
func (e executor) OverdueLoans(ctx context.Context, now time.Time) ([]librarystore.LoanView, error) {
	selectStmt := e.loansWithDisplayFields().
		Where(overdueConditions(now)...).
		Order(goqu.I("loans.due_date").Asc(), goqu.I("loans.id").Asc())

	return e.collectLoanViews(ctx, "overdue_loans", selectStmt)
}

func overdueConditions(now time.Time) []exp.Expression {
	return []exp.Expression{
		goqu.I("loans.status").Eq(librarystore.LoanStatusActive),
		goqu.I("loans.due_date").Lt(dbTime(now)),
	}
}

func newestFirst() []exp.OrderedExpression {
	return []exp.OrderedExpression{goqu.I("loans.borrow_date").Desc(), goqu.I("loans.id").Desc()}
}
