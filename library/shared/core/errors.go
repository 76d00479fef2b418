package core

import (
	"errors"
)

// Kind classifies an error for the caller. Each kind maps to exactly one HTTP status.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindForbidden       Kind = "forbidden"
	KindUnauthenticated Kind = "unauthenticated"
	KindInternal        Kind = "internal"
)

// Error is a business error with a stable machine-readable kind.
// Field names the offending input field, if there is one.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return string(e.Kind) + ": " + e.Field + ": " + e.Message
	}

	return string(e.Kind) + ": " + e.Message
}

func newError(kind Kind, field, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

// ValidationError reports a missing or malformed input field.
func ValidationError(field, message string) *Error {
	return newError(KindValidation, field, message)
}

// NotFoundError reports that a referenced entity does not exist.
func NotFoundError(message string) *Error {
	return newError(KindNotFound, "", message)
}

// ConflictError reports a violated uniqueness or state rule. field may be empty.
func ConflictError(field, message string) *Error {
	return newError(KindConflict, field, message)
}

// Well-known errors. Compare with errors.Is.
var (
	ErrBookNotFound     = NotFoundError("book not found")
	ErrAuthorNotFound   = NotFoundError("author not found")
	ErrCategoryNotFound = NotFoundError("category not found")
	ErrLoanNotFound     = NotFoundError("loan not found")
	ErrUserNotFound     = NotFoundError("user not found")

	ErrNoCopiesAvailable    = ConflictError("", "no copies available")
	ErrBookUnderMaintenance = ConflictError("", "book is under maintenance")
	ErrAlreadyBorrowed      = ConflictError("", "book is already borrowed by this user")
	ErrLoanAlreadyReturned  = ConflictError("", "loan is already returned")
	ErrBookHasActiveLoans   = ConflictError("", "book has active loans")
	ErrBookChanged          = ConflictError("", "book was changed concurrently, reload and retry")
	ErrEmailTaken           = ConflictError("email", "email is already registered")
	ErrUniversityIDTaken    = ConflictError("universityId", "university id is already registered")
	ErrISBNTaken            = ConflictError("isbn", "isbn is already in the catalog")
	ErrAuthorNameTaken      = ConflictError("name", "author already exists")

	ErrNotLoanOwner  = newError(KindForbidden, "", "only the borrower or an admin may return this loan")
	ErrAdminRequired = newError(KindForbidden, "", "admin role required")

	ErrInvalidCredentials     = newError(KindUnauthenticated, "", "invalid email or password")
	ErrAuthenticationRequired = newError(KindUnauthenticated, "", "authentication required")
	ErrInvalidToken           = newError(KindUnauthenticated, "", "invalid or expired token")

	ErrInternal = newError(KindInternal, "", "internal error")
)

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var coreErr *Error
	if errors.As(err, &coreErr) {
		return coreErr.Kind
	}

	return KindInternal
}

// AsError returns the first *Error in err's chain. Anything else becomes ErrInternal, so that
// storage details never reach a client.
func AsError(err error) *Error {
	var coreErr *Error
	if errors.As(err, &coreErr) {
		return coreErr
	}

	return ErrInternal
}
