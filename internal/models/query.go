package models

import (
	"fmt"
	"strings"
)

// Search limits applied when a request leaves them unset or out of range.
const (
	DefaultSearchLimit = 30
	MaxSearchLimit     = 500
)

// SearchQuery represents one search request against the bibliography index.
type SearchQuery struct {
	Query         string `json:"query"`
	Limit         int    `json:"limit,omitempty"`
	IncludeBibtex bool   `json:"bibtex,omitempty"`
}

// Validate ensures the query is usable and normalizes the limit.
// Returns an error if the query text is empty.
func (q *SearchQuery) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit > MaxSearchLimit {
		q.Limit = MaxSearchLimit
	}
	return nil
}
