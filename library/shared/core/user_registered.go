package core

import (
	"time"

	"github.com/google/uuid"
)

// UserRegisteredEventType is the event type identifier.
const UserRegisteredEventType = "UserRegistered"

// UserRegistered represents when a new user account was created, by self-registration or by an admin.
type UserRegistered struct {
	EventType  EventTypeString `json:"eventType"`
	UserID     UserIDString    `json:"userId"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       string          `json:"role"`
	OccurredAt OccurredAtTS    `json:"occurredAt"`
}

// BuildUserRegistered creates a new UserRegistered event.
func BuildUserRegistered(userID uuid.UUID, name, email, role string, occurredAt time.Time) UserRegistered {
	return UserRegistered{
		EventType:  UserRegisteredEventType,
		UserID:     userID.String(),
		Name:       name,
		Email:      email,
		Role:       role,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e UserRegistered) IsEventType() string {
	return UserRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e UserRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e UserRegistered) IsErrorEvent() bool {
	return false
}
