// Package bib reads BibTeX sources into raw bibliography entries and
// serializes single entries back to BibTeX text.
package bib

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/nickng/bibtex"

	"github.com/hyperjump/bibfind/internal/models"
)

// ReadSources parses the given BibTeX files as one logically concatenated
// source, in order, so that @string abbreviations defined in an earlier file
// resolve in later ones.
func ReadSources(paths ...string) ([]models.RawEntry, error) {
	readers := make([]io.Reader, 0, 2*len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read bibliography: %w", err)
		}
		defer f.Close()
		readers = append(readers, f, strings.NewReader("\n"))
	}
	entries, err := Read(io.MultiReader(readers...))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bibliography %s: %w", strings.Join(paths, ", "), err)
	}
	return entries, nil
}

// Read parses BibTeX records from r, in source order.
func Read(r io.Reader) ([]models.RawEntry, error) {
	bt, err := bibtex.Parse(r)
	if err != nil {
		return nil, err
	}
	entries := make([]models.RawEntry, 0, len(bt.Entries))
	for _, e := range bt.Entries {
		entries = append(entries, toRawEntry(e))
	}
	return entries, nil
}

func toRawEntry(e *bibtex.BibEntry) models.RawEntry {
	raw := models.RawEntry{
		Key:    e.CiteName,
		Type:   e.Type,
		Fields: make(map[string]string, len(e.Fields)),
	}
	for name, val := range e.Fields {
		if strings.EqualFold(name, "author") {
			raw.Authors = ParseAuthors(val.String())
			continue
		}
		raw.Fields[strings.ToLower(name)] = val.String()
	}
	return raw
}

// ParseAuthors splits a BibTeX author field into structured names. Authors
// are separated by " and "; each name is written either "Family, Given" or
// "Given Middle Family", where lower-case particles (van, de, ...) belong to
// the family name.
func ParseAuthors(field string) []models.Author {
	field = strings.Join(strings.Fields(field), " ")
	if field == "" {
		return nil
	}
	parts := strings.Split(field, " and ")
	authors := make([]models.Author, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		authors = append(authors, parseName(p))
	}
	return authors
}

func parseName(name string) models.Author {
	if i := strings.Index(name, ","); i >= 0 {
		family := strings.TrimSpace(name[:i])
		rest := strings.TrimSpace(name[i+1:])
		// "Family, Jr., Given" keeps only the last segment as given names.
		if j := strings.LastIndex(rest, ","); j >= 0 {
			rest = strings.TrimSpace(rest[j+1:])
		}
		given, middle := splitGiven(rest)
		return models.Author{Given: given, Middle: middle, Family: family}
	}

	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return models.Author{}
	case 1:
		return models.Author{Family: words[0]}
	case 2:
		return models.Author{Given: words[0], Family: words[1]}
	}

	familyStart := len(words) - 1
	for i := 1; i < len(words)-1; i++ {
		if isNameParticle(words[i]) {
			familyStart = i
			break
		}
	}
	return models.Author{
		Given:  words[0],
		Middle: strings.Join(words[1:familyStart], " "),
		Family: strings.Join(words[familyStart:], " "),
	}
}

func splitGiven(s string) (given, middle string) {
	words := strings.Fields(s)
	switch len(words) {
	case 0:
		return "", ""
	case 1:
		return words[0], ""
	}
	return words[0], strings.Join(words[1:], " ")
}

func isNameParticle(word string) bool {
	r := []rune(word)
	return len(r) > 0 && unicode.IsLower(r[0])
}
