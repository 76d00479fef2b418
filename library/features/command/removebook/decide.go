package removebook

import (
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

const (
	failureReasonBookNotFound   = "book not found"
	failureReasonHasActiveLoans = "book has active loans"
)

// State is what Decide needs to know about the book, read inside the transaction.
type State struct {
	BookFound   bool
	Title       string
	ActiveLoans int
}

// Decide implements the business rules for removing a book.
//
// Business Rules:
//
//	GIVEN: a book with BookID
//	WHEN: RemoveBook command is received
//	THEN: BookRemovedFromCatalog event is generated
//	ERROR: "book not found" if the book does not exist
//	ERROR: "book has active loans" if at least one copy is lent out
//
// The number of deleted returned loans is only known after the delete; see WithReturnedLoansDeleted.
func Decide(s State, command Command) core.DecisionResult {
	if !s.BookFound {
		return reject(command, failureReasonBookNotFound, core.ErrBookNotFound)
	}

	if s.ActiveLoans > 0 {
		return reject(command, failureReasonHasActiveLoans, core.ErrBookHasActiveLoans)
	}

	return core.SuccessDecision(
		core.BuildBookRemovedFromCatalog(command.BookID, s.Title, 0, command.OccurredAt),
	)
}

// WithReturnedLoansDeleted completes a successful decision with the number of deleted loans.
func WithReturnedLoansDeleted(result core.DecisionResult, deleted int64) core.DecisionResult {
	event, ok := result.Event.(core.BookRemovedFromCatalog)
	if !ok {
		return result
	}

	event.ReturnedLoansDeleted = deleted

	return core.SuccessDecision(event)
}

func reject(command Command, reason string, err error) core.DecisionResult {
	event := core.BuildRemovingBookFailed(command.BookID, reason, command.OccurredAt)

	return core.ErrorDecision(event, err)
}
