package bib

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyperjump/bibfind/internal/models"
)

// FormatEntry serializes one raw entry back to BibTeX text. The author field
// leads and the remaining fields follow in sorted order, so output is
// deterministic for a given entry.
func FormatEntry(e models.RawEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s", e.Type, e.Key)
	if len(e.Authors) > 0 {
		writeField(&b, "author", JoinAuthors(e.Authors))
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writeField(&b, name, e.Fields[name])
	}
	b.WriteString("\n}\n")
	return b.String()
}

// JoinAuthors renders structured names as a BibTeX author field value.
func JoinAuthors(authors []models.Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if s := a.String(); s != "" {
			names = append(names, s)
		}
	}
	return strings.Join(names, " and ")
}

func writeField(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, ",\n  %-12s = {%s}", name, value)
}
