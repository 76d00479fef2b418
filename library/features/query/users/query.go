// Package users lists all users, sorted by name. Password hashes are part of the records; the HTTP layer never serializes them.
package users

const (
	queryType = "Users"
)

// Query lists every entry.
type Query struct{}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}
