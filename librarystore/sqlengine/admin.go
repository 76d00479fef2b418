package sqlengine

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine/internal/adapters"
)

// Counts computes the dashboard counters. Overdue means active with a due date before now.
func (e executor) Counts(ctx context.Context, now time.Time) (librarystore.LibraryCounts, error) {
	var counts librarystore.LibraryCounts
	var err error

	if counts.Books, err = e.count(ctx, "count_books", e.dialect.goqu().From(tableBooks)); err != nil {
		return librarystore.LibraryCounts{}, err
	}

	if counts.Users, err = e.count(ctx, "count_users", e.dialect.goqu().From(tableUsers)); err != nil {
		return librarystore.LibraryCounts{}, err
	}

	counts.ActiveLoans, err = e.count(ctx, "count_active_loans", e.dialect.goqu().
		From(tableLoans).
		Where(goqu.I("loans.status").Eq(librarystore.LoanStatusActive)))
	if err != nil {
		return librarystore.LibraryCounts{}, err
	}

	counts.OverdueLoans, err = e.count(ctx, "count_overdue_loans", e.dialect.goqu().
		From(tableLoans).
		Where(overdueConditions(now)...))
	if err != nil {
		return librarystore.LibraryCounts{}, err
	}

	return counts, nil
}

// AppendActivity writes entries to the append-only activity log.
func (e executor) AppendActivity(ctx context.Context, records ...librarystore.ActivityRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]any, 0, len(records))
	for _, record := range records {
		rows = append(rows, goqu.Record{
			"id":          record.ID.String(),
			"event_type":  record.EventType,
			"occurred_at": dbTime(record.OccurredAt),
			"payload":     string(record.Payload),
		})
	}

	_, err := e.exec(ctx, "append_activity", e.dialect.goqu().Insert(tableActivity).Rows(rows...))

	return err
}

// RecentActivity returns the latest activity entries, newest first.
func (e executor) RecentActivity(ctx context.Context, limit int) ([]librarystore.ActivityRecord, error) {
	selectStmt := e.dialect.goqu().
		From(tableActivity).
		Select("id", "event_type", "occurred_at", "payload").
		Order(goqu.C("occurred_at").Desc(), goqu.C("id").Desc()).
		Limit(uint(limit))

	records := make([]librarystore.ActivityRecord, 0, limit)

	err := e.queryRows(ctx, "recent_activity", selectStmt, func(rows adapters.DBRows) error {
		var record librarystore.ActivityRecord
		var id, payload string

		if scanErr := rows.Scan(&id, &record.EventType, &record.OccurredAt, &payload); scanErr != nil {
			return scanErr
		}

		if parseErr := parseUUIDs(uuidTarget{raw: id, target: &record.ID}); parseErr != nil {
			return parseErr
		}

		record.OccurredAt = record.OccurredAt.UTC()
		record.Payload = []byte(payload)
		records = append(records, record)

		return nil
	})

	return records, err
}
