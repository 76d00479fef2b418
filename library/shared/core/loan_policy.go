package core

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// LoanPeriod is the fixed borrowing period.
const LoanPeriod = 14 * 24 * time.Hour

const day = 24 * time.Hour

// DefaultFinePerDay is the reference fine rate in currency units per overdue day.
var DefaultFinePerDay = decimal.NewFromInt(5)

// DueDateFor returns the due date of a loan borrowed at borrowedAt.
func DueDateFor(borrowedAt time.Time) time.Time {
	return borrowedAt.Add(LoanPeriod)
}

// IsOverdue is true iff the loan is active and now is strictly after its due date.
func IsOverdue(active bool, dueDate time.Time, now time.Time) bool {
	return active && now.After(dueDate)
}

// DaysOverdue counts started days past the due date: one second late is one day.
// It is 0 when the loan is not overdue.
func DaysOverdue(active bool, dueDate time.Time, now time.Time) int {
	if !IsOverdue(active, dueDate, now) {
		return 0
	}

	return int(math.Ceil(float64(now.Sub(dueDate)) / float64(day)))
}

// LoanPolicy computes the read-time standing of loans. Nothing it derives is ever stored.
type LoanPolicy struct {
	finePerDay decimal.Decimal
}

// BuildLoanPolicy creates a LoanPolicy. A negative rate is treated as zero.
func BuildLoanPolicy(finePerDay decimal.Decimal) LoanPolicy {
	if finePerDay.IsNegative() {
		finePerDay = decimal.Zero
	}

	return LoanPolicy{finePerDay: finePerDay}
}

// DefaultLoanPolicy uses DefaultFinePerDay.
func DefaultLoanPolicy() LoanPolicy {
	return BuildLoanPolicy(DefaultFinePerDay)
}

func (p LoanPolicy) FinePerDay() decimal.Decimal {
	return p.finePerDay
}

// Fine is daysOverdue times the rate.
func (p LoanPolicy) Fine(daysOverdue int) decimal.Decimal {
	return p.finePerDay.Mul(decimal.NewFromInt(int64(daysOverdue)))
}

// LoanStanding is the derived overdue view of one loan at a point in time.
type LoanStanding struct {
	IsOverdue   bool
	DaysOverdue int
	Fine        decimal.Decimal
}

// StandingOf derives the standing of a loan with the given state and due date at now.
func (p LoanPolicy) StandingOf(active bool, dueDate time.Time, now time.Time) LoanStanding {
	days := DaysOverdue(active, dueDate, now)

	return LoanStanding{
		IsOverdue:   IsOverdue(active, dueDate, now),
		DaysOverdue: days,
		Fine:        p.Fine(days),
	}
}
