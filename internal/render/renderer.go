// Package render formats ranked search results for terminal display.
package render

import (
	"fmt"
	"strings"

	"github.com/hyperjump/bibfind/internal/models"
	"github.com/hyperjump/bibfind/pkg/utils"
)

// Default layout of the classic result listing.
const (
	DefaultWidth  = 80
	DefaultIndent = 8
)

const (
	ansiBold  = "1"
	ansiGreen = "32"
	ansiReset = "\x1b[0m"
)

// Options control result formatting.
type Options struct {
	Width         int  // wrap column, including the indent; <= 0 means DefaultWidth
	Indent        int  // spaces of indent on every field line; <= 0 means DefaultIndent
	Color         bool // emphasize keys (bold) and matched spans (green)
	IncludeBibtex bool // append the stored raw BibTeX after each result
}

// Renderer produces the printable text for a result listing.
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer with the given options, falling back to the
// default layout for unset width and indent.
func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Indent <= 0 {
		opts.Indent = DefaultIndent
	}
	return &Renderer{opts: opts}
}

// Header returns the banner line printed before the results.
func Header(query string, limit int) string {
	return fmt.Sprintf("Showing up to %d results for query %q:\n(use -l 50 for more)", limit, query)
}

// Render returns the formatted text for the results: for each hit a blank
// line, the citation key, then one wrapped line per present display field,
// comma-terminated except for the last, with the raw BibTeX appended when
// requested.
func (r *Renderer) Render(results []*models.SearchResult) string {
	var b strings.Builder
	for _, res := range results {
		r.renderResult(&b, res)
	}
	return b.String()
}

func (r *Renderer) renderResult(b *strings.Builder, res *models.SearchResult) {
	b.WriteByte('\n')
	b.WriteString(r.emphasize(res.ID, ansiBold))
	b.WriteByte('\n')

	fields := presentFields(res)
	for i, name := range fields {
		text := r.highlight(res.Fields[name], res.Spans[name])
		if i < len(fields)-1 {
			text += ","
		}
		b.WriteString(utils.WrapIndent(text, r.opts.Width, r.opts.Indent))
		b.WriteByte('\n')
	}
	if r.opts.IncludeBibtex && res.Bibtex != "" {
		b.WriteString(res.Bibtex)
	}
}

// presentFields returns the display fields stored on the result, in display
// order.
func presentFields(res *models.SearchResult) []string {
	fields := make([]string, 0, len(models.DisplayFields))
	for _, name := range models.DisplayFields {
		if _, ok := res.Fields[name]; ok {
			fields = append(fields, name)
		}
	}
	return fields
}

// highlight wraps each matched span of text in green escapes. Spans are byte
// offsets into text, ordered and non-overlapping; out-of-range spans are
// skipped.
func (r *Renderer) highlight(text string, spans []models.Span) string {
	if !r.opts.Color || len(spans) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, s := range spans {
		if s.Start < last || s.Start > len(text) {
			continue
		}
		end := s.End
		if end > len(text) {
			end = len(text)
		}
		b.WriteString(text[last:s.Start])
		b.WriteString(r.emphasize(text[s.Start:end], ansiGreen))
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

func (r *Renderer) emphasize(s, attr string) string {
	if !r.opts.Color {
		return s
	}
	return "\x1b[" + attr + "m" + s + ansiReset
}
