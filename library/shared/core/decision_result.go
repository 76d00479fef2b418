package core

// DecisionResult represents the outcome of a business decision in a Decide function.
//
// IMPORTANT: DecisionResult should only be constructed using the provided factory methods:
// SuccessDecision(event), ErrorDecision(event, err) or RejectedDecision(err).
type DecisionResult struct {
	Outcome string      // "success" or "error"
	Event   DomainEvent // the event to record in the activity log
	Err     error
}

const (
	successOutcome = "success"
	errorOutcome   = "error"
)

// SuccessDecision creates a DecisionResult indicating a successful state change.
func SuccessDecision(event DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Event:   event,
	}
}

// ErrorDecision creates a DecisionResult indicating a business rule violation with an error event to record.
func ErrorDecision(event DomainEvent, err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Event:   event,
		Err:     err,
	}
}

// RejectedDecision creates a DecisionResult for a rejection that is not worth recording,
// e.g. invalid input.
func RejectedDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// HasEventToRecord returns true if there is an event to append to the activity log.
func (r DecisionResult) HasEventToRecord() bool {
	return r.Event != nil
}

// IsSuccess reports whether the state change may be applied.
func (r DecisionResult) IsSuccess() bool {
	return r.Outcome == successOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
