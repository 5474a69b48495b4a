package models

// Span marks a matched byte range within a stored field's text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SearchResult represents a single ranked hit with its stored fields and
// highlight spans. Fields holds the displayable stored fields as strings;
// Spans holds per-field matched ranges, ordered and non-overlapping.
type SearchResult struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
	Spans  map[string][]Span `json:"spans,omitempty"`
	Bibtex string            `json:"bibtex,omitempty"`
	Year   int               `json:"year,omitempty"`
	Score  float64           `json:"score"`
	Rank   int               `json:"rank"`
}

// SearchResponse is the response for a search request. Results holds at most
// the requested limit; Total counts every matching document.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
	// Suggestions contains "Did you mean?" spelling suggestions, populated
	// only when the query matched nothing.
	Suggestions []string `json:"suggestions,omitempty"`
}
