// Package categories lists all categories, sorted by name.
package categories

const (
	queryType = "Categories"
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
