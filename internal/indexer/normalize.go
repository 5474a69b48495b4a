package indexer

import (
	"strconv"
	"strings"

	"github.com/hyperjump/bibfind/internal/bib"
	"github.com/hyperjump/bibfind/internal/models"
)

// Normalize converts one raw entry into the document form stored in the
// index. Display fields are cleaned of BibTeX markup, authors are flattened
// to one comma-separated string, and the full entry is serialized into the
// bibtex field for raw output. Acronym derivation and duplicate merging
// happen later in the pipeline.
func Normalize(e models.RawEntry) *models.Document {
	doc := &models.Document{
		ID:     e.Key,
		Bibtex: bib.FormatEntry(e),
		Title:  CleanField(e.Fields["title"]),
		Author: CleanField(authorString(e.Authors)),
	}
	if note, ok := e.Fields["note"]; ok {
		note = strings.TrimPrefix(CleanField(note), `\url`)
		doc.Note = strings.TrimSpace(note)
	}
	if year, ok := e.Fields["year"]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(CleanField(year))); err == nil {
			doc.Year = n
		}
	}
	return doc
}

// CleanField deletes literal braces and collapses runs of whitespace,
// including embedded line breaks, to single spaces.
func CleanField(s string) string {
	if s == "" {
		return ""
	}
	s = strings.Map(func(r rune) rune {
		if r == '{' || r == '}' {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// authorString flattens structured names to the displayed author line:
// each author's name parts space-joined, authors comma-separated.
func authorString(authors []models.Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if s := a.String(); s != "" {
			names = append(names, s)
		}
	}
	return strings.Join(names, ", ")
}
