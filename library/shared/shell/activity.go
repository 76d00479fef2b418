package shell

import (
	"context"
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

var (
	// ErrMappingToActivityRecordFailed is returned when domain event serialization fails.
	ErrMappingToActivityRecordFailed = errors.New("mapping to activity record failed for domain event")

	// ErrMappingToDomainEventFailed is returned when activity record deserialization fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

var activityJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// ActivityRecordFrom converts a DomainEvent to an activity log record with a JSON payload.
func ActivityRecordFrom(event core.DomainEvent) (librarystore.ActivityRecord, error) {
	payloadJSON, err := activityJSON.Marshal(event)
	if err != nil {
		return librarystore.ActivityRecord{}, errors.Join(ErrMappingToActivityRecordFailed, err)
	}

	return librarystore.ActivityRecord{
		ID:         uuid.New(),
		EventType:  event.IsEventType(),
		OccurredAt: event.HasOccurredAt(),
		Payload:    payloadJSON,
	}, nil
}

// ActivityRecordsFrom converts multiple DomainEvents to activity log records.
func ActivityRecordsFrom(events ...core.DomainEvent) ([]librarystore.ActivityRecord, error) {
	records := make([]librarystore.ActivityRecord, 0, len(events))

	for _, event := range events {
		record, err := ActivityRecordFrom(event)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

// ActivityAppender is the part of the store, or of a transaction, that appends to the activity log.
type ActivityAppender interface {
	AppendActivity(ctx context.Context, records ...librarystore.ActivityRecord) error
}

// AppendActivity records events in the activity log through appender. Nil events are skipped.
func AppendActivity(ctx context.Context, appender ActivityAppender, events ...core.DomainEvent) error {
	recordable := make([]core.DomainEvent, 0, len(events))
	for _, event := range events {
		if event != nil {
			recordable = append(recordable, event)
		}
	}

	if len(recordable) == 0 {
		return nil
	}

	records, err := ActivityRecordsFrom(recordable...)
	if err != nil {
		return err
	}

	return appender.AppendActivity(ctx, records...)
}

// DomainEventFrom converts an activity log record back to its DomainEvent.
func DomainEventFrom(record librarystore.ActivityRecord) (core.DomainEvent, error) {
	switch record.EventType {
	case core.BookBorrowedEventType:
		return unmarshalEvent[core.BookBorrowed](record.Payload)
	case core.BorrowingBookFailedEventType:
		return unmarshalEvent[core.BorrowingBookFailed](record.Payload)
	case core.BookReturnedEventType:
		return unmarshalEvent[core.BookReturned](record.Payload)
	case core.ReturningBookFailedEventType:
		return unmarshalEvent[core.ReturningBookFailed](record.Payload)
	case core.BookAddedToCatalogEventType:
		return unmarshalEvent[core.BookAddedToCatalog](record.Payload)
	case core.BookUpdatedEventType:
		return unmarshalEvent[core.BookUpdated](record.Payload)
	case core.BookRemovedFromCatalogEventType:
		return unmarshalEvent[core.BookRemovedFromCatalog](record.Payload)
	case core.RemovingBookFailedEventType:
		return unmarshalEvent[core.RemovingBookFailed](record.Payload)
	case core.AuthorAddedEventType:
		return unmarshalEvent[core.AuthorAdded](record.Payload)
	case core.UserRegisteredEventType:
		return unmarshalEvent[core.UserRegistered](record.Payload)
	case core.CatalogResetEventType:
		return unmarshalEvent[core.CatalogReset](record.Payload)
	case core.ReturnReminderIssuedEventType:
		return unmarshalEvent[core.ReturnReminderIssued](record.Payload)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshalEvent[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := activityJSON.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
