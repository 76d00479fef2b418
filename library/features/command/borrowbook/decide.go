package borrowbook

import (
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

const (
	failureReasonBookNotFound      = "book not found"
	failureReasonUnderMaintenance  = "book is under maintenance"
	failureReasonNoCopiesAvailable = "no copies available"
	failureReasonAlreadyBorrowed   = "book is already borrowed by this user"
)

// State is what Decide needs to know about the book and the user, read inside the transaction.
type State struct {
	BookFound        bool
	AvailableCopies  int
	UnderMaintenance bool
	AlreadyBorrowed  bool
}

// Decide implements the business rules for borrowing a book.
//
// Business Rules:
//
//	GIVEN: a book with BookID and a user with UserID
//	WHEN: BorrowBook command is received
//	THEN: BookBorrowed event is generated, due LoanPeriod after the command
//	ERROR: "book not found" if the book does not exist
//	ERROR: "book is under maintenance" if the maintenance override is set
//	ERROR: "no copies available" if no copy is on the shelf
//	ERROR: "book is already borrowed by this user" if the user has an active loan for the book
func Decide(s State, command Command) core.DecisionResult {
	if !s.BookFound {
		return reject(command, failureReasonBookNotFound, core.ErrBookNotFound)
	}

	if s.UnderMaintenance {
		return reject(command, failureReasonUnderMaintenance, core.ErrBookUnderMaintenance)
	}

	if s.AvailableCopies < 1 {
		return reject(command, failureReasonNoCopiesAvailable, core.ErrNoCopiesAvailable)
	}

	if s.AlreadyBorrowed {
		return reject(command, failureReasonAlreadyBorrowed, core.ErrAlreadyBorrowed)
	}

	return core.SuccessDecision(
		core.BuildBookBorrowed(command.LoanID, command.BookID, command.UserID, command.OccurredAt),
	)
}

func reject(command Command, reason string, err error) core.DecisionResult {
	event := core.BuildBorrowingBookFailed(command.BookID, command.UserID, reason, command.OccurredAt)

	return core.ErrorDecision(event, err)
}
