// Package search runs validated queries against the bibliography index and
// decorates zero-hit responses with spelling suggestions.
package search

import (
	"context"
	"time"

	"github.com/hyperjump/bibfind/internal/index"
	"github.com/hyperjump/bibfind/internal/models"
)

// Engine executes search requests against one open index.
type Engine struct {
	index     index.Index
	suggester *Suggester
}

// NewEngine creates a search engine over an open index.
func NewEngine(idx index.Index) *Engine {
	return &Engine{
		index:     idx,
		suggester: NewSuggester(idx),
	}
}

// Search validates the query, executes it, and returns ranked results newest
// first. Raw BibTeX is attached to results only when the request asks for
// it. When nothing matches, the response carries "did you mean" suggestions
// drawn from the index's own term dictionaries. A malformed query returns a
// *index.QueryParseError.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()

	if err := query.Validate(); err != nil {
		return nil, err
	}
	results, total, err := e.index.Search(ctx, query.Query, query.Limit)
	if err != nil {
		return nil, err
	}
	if !query.IncludeBibtex {
		for _, r := range results {
			r.Bibtex = ""
		}
	}

	response := &models.SearchResponse{
		Results:   results,
		Total:     total,
		QueryTime: time.Since(startTime).Milliseconds(),
		Query:     query.Query,
	}
	if total == 0 {
		response.Suggestions = e.suggester.Suggest(query.Query)
	}
	return response, nil
}
