package domain

// SearchQuery selects records from the index.
type SearchQuery struct {
	// Text is matched case-insensitively as a substring of attribute values.
	// Empty matches every record that has at least one attribute.
	Text string

	// Key restricts matching to one attribute. Empty searches all keys.
	Key Key

	// Limit caps the number of results. Zero or negative means the default.
	Limit int
}

// DefaultSearchLimit is used when a query does not set a limit.
const DefaultSearchLimit = 20

// SearchResult is a record matched by a query.
type SearchResult struct {
	// Record is the matching record.
	Record Record

	// MatchedKeys lists the attributes whose values matched the query text.
	MatchedKeys []Key
}
