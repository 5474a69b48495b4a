// Package models defines the core data structures for bibliography entries,
// indexed documents, queries, and search results.
package models

import "strings"

// Author is one structured author name from a bibliographic record.
type Author struct {
	Given  string `json:"given,omitempty"`
	Middle string `json:"middle,omitempty"`
	Family string `json:"family,omitempty"`
}

// String returns the name parts joined by single spaces, in given, middle,
// family order, skipping empty parts.
func (a Author) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Given, a.Middle, a.Family} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// RawEntry is one parsed bibliographic record as supplied by the source
// reader. Fields holds raw field text keyed by lower-case field name; the
// author field is represented structurally in Authors and does not appear
// in Fields.
type RawEntry struct {
	Key     string            `json:"key"`
	Type    string            `json:"type"`
	Authors []Author          `json:"authors,omitempty"`
	Fields  map[string]string `json:"fields"`
}
