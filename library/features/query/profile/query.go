// Package profile implements the Profile query: the record of the authenticated user.
package profile

import (
	"github.com/google/uuid"
)

const (
	queryType = "Profile"
)

// Query represents the lookup of the caller's own account.
type Query struct {
	UserID uuid.UUID
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(userID uuid.UUID) Query {
	return Query{UserID: userID}
}
