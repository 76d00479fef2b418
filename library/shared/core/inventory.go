package core

// Book statuses. The values equal the persisted ones.
const (
	BookStatusAvailable   = "available"
	BookStatusBorrowed    = "borrowed"
	BookStatusMaintenance = "maintenance"
)

// AdjustAvailableCopies applies a change of total copies from oldTotal to newTotal to the available
// pool: available + (newTotal - oldTotal), clamped to [0, newTotal].
//
// The clamp is a side effect callers must accept: when copies are removed while some are lent out,
// the pool may shrink by less than the delta would say.
func AdjustAvailableCopies(available, oldTotal, newTotal int) int {
	adjusted := available + (newTotal - oldTotal)

	if adjusted < 0 {
		return 0
	}

	if adjusted > newTotal {
		return newTotal
	}

	return adjusted
}

// DeriveBookStatus returns "available" iff at least one copy is available, else "borrowed".
// The maintenance override wins over both.
func DeriveBookStatus(availableCopies int, maintenance bool) string {
	switch {
	case maintenance:
		return BookStatusMaintenance
	case availableCopies > 0:
		return BookStatusAvailable
	default:
		return BookStatusBorrowed
	}
}

// CopiesAreConsistent checks 0 <= available <= total.
func CopiesAreConsistent(available, total int) bool {
	return available >= 0 && available <= total
}
