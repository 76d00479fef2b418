package sqlengine

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	tableBooks      = "books"
	tableAuthors    = "authors"
	tableCategories = "categories"
	tableUsers      = "users"
	tableLoans      = "loans"
	tableActivity   = "activity_log"
)

// dbTime normalizes timestamps before they are written. Second precision in UTC keeps the interpolated
// literals of both dialects lexicographically comparable, which SQLite relies on for its text timestamps.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func nullableInt(i *int) any {
	if i == nil {
		return nil
	}

	return *i
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}

	return dbTime(*t)
}

func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}

	i := int(n.Int64)

	return &i
}

func fromNullTime(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}

	t := n.Time.UTC()

	return &t
}

// uuidTarget pairs a scanned text column with the uuid it is parsed into.
type uuidTarget struct {
	raw    string
	target *uuid.UUID
}

func parseUUIDs(targets ...uuidTarget) error {
	for _, t := range targets {
		parsed, err := uuid.Parse(t.raw)
		if err != nil {
			return fmt.Errorf("malformed id %q: %w", t.raw, err)
		}

		*t.target = parsed
	}

	return nil
}
