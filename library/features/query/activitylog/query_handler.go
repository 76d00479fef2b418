package activitylog

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Store defines what the QueryHandler needs from storage.
type Store interface {
	RecentActivity(ctx context.Context, limit int) ([]librarystore.ActivityRecord, error)
}

// Entry is one decoded activity log entry.
type Entry struct {
	EventType  string
	OccurredAt time.Time
	Event      core.DomainEvent
}

type QueryHandler struct {
	store Store
}

func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the entries newest first. A record that cannot be decoded fails the whole query.
func (h QueryHandler) Handle(ctx context.Context, query Query) ([]Entry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records, err := h.store.RecentActivity(librarystore.WithEventualConsistency(ctx), query.Limit)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(records))

	for _, record := range records {
		event, decodeErr := shell.DomainEventFrom(record)
		if decodeErr != nil {
			return nil, decodeErr
		}

		entries = append(entries, Entry{EventType: record.EventType, OccurredAt: record.OccurredAt, Event: event})
	}

	return entries, nil
}
