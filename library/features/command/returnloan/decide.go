package returnloan

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

const (
	failureReasonLoanNotFound    = "loan not found"
	failureReasonNotLoanOwner    = "actor is neither the borrower nor an admin"
	failureReasonAlreadyReturned = "loan is already returned"
)

// State is the loan as read inside the transaction.
type State struct {
	LoanFound       bool
	BookID          uuid.UUID
	BorrowerID      uuid.UUID
	AlreadyReturned bool
}

// Decide implements the business rules for returning a loan.
//
// Business Rules:
//
//	GIVEN: a loan with LoanID
//	WHEN: ReturnLoan command is received
//	THEN: BookReturned event is generated
//	ERROR: "loan not found" if the loan does not exist
//	ERROR: "actor is neither the borrower nor an admin" if a different, non-admin user asks
//	ERROR: "loan is already returned" if the loan was closed before
func Decide(s State, command Command) core.DecisionResult {
	if !s.LoanFound {
		return reject(command, failureReasonLoanNotFound, core.ErrLoanNotFound)
	}

	if !command.Actor.MayActFor(s.BorrowerID) {
		return reject(command, failureReasonNotLoanOwner, core.ErrNotLoanOwner)
	}

	if s.AlreadyReturned {
		return reject(command, failureReasonAlreadyReturned, core.ErrLoanAlreadyReturned)
	}

	return core.SuccessDecision(
		core.BuildBookReturned(command.LoanID, s.BookID, s.BorrowerID, command.Actor.UserID, command.OccurredAt),
	)
}

func reject(command Command, reason string, err error) core.DecisionResult {
	event := core.BuildReturningBookFailed(command.LoanID, command.Actor.UserID, reason, command.OccurredAt)

	return core.ErrorDecision(event, err)
}
