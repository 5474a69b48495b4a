// Package index provides the persistent full-text index over bibliography
// documents: schema, writing, query compilation, and search.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/bibfind/internal/models"
)

// ErrNotExists is returned by OpenAt when no index exists at the path.
var ErrNotExists = errors.New("index does not exist")

// QueryParseError reports a malformed query string. The offending query is
// carried so callers can echo it back to the user.
type QueryParseError struct {
	Query string
	Msg   string
}

func (e *QueryParseError) Error() string {
	return fmt.Sprintf("cannot parse query %q: %s", e.Query, e.Msg)
}

// TermCount is one term of a field's dictionary with its document frequency.
type TermCount struct {
	Term  string
	Count uint64
}

// Writer adds documents to a freshly created index. Documents become visible
// to searches only after Commit.
type Writer interface {
	// Add stages a document. Absent fields (zero values) are not stored.
	Add(doc *models.Document) error
	// Commit durably writes all staged documents in one batch.
	Commit() error
	Close() error
}

// Index answers queries against an existing index.
type Index interface {
	// Search parses and executes query, returning up to limit hits ordered
	// by year descending, then score descending, then id ascending, plus the
	// total number of matching documents. A syntactically invalid query
	// returns a *QueryParseError.
	Search(ctx context.Context, query string, limit int) ([]*models.SearchResult, int, error)
	// DocCount returns the number of indexed documents.
	DocCount() (uint64, error)
	// FieldTerms returns the term dictionary of an indexed field, for
	// suggestion lookups.
	FieldTerms(field string) ([]TermCount, error)
	Close() error
}
