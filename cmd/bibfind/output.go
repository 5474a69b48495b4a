package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperjump/bibfind/internal/config"
	"github.com/hyperjump/bibfind/internal/models"
	"github.com/hyperjump/bibfind/internal/render"
)

// writeResults writes the response to w in the selected output format.
func writeResults(w io.Writer, cfg *config.Config, response *models.SearchResponse) error {
	switch flagOutput {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case "text":
		return writeText(w, cfg, response)
	default:
		return fmt.Errorf("unknown output format %q; use text or json", flagOutput)
	}
}

func writeText(w io.Writer, cfg *config.Config, response *models.SearchResponse) error {
	interactive := false
	if f, ok := w.(*os.File); ok {
		interactive = isTerminal(f)
	}

	if response.Total == 0 {
		fmt.Fprintln(w, "No results found.")
		if len(response.Suggestions) > 0 {
			fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(response.Suggestions, ", "))
		}
		return nil
	}

	r := render.NewRenderer(render.Options{
		Width:         cfg.Render.Width,
		Indent:        cfg.Render.Indent,
		Color:         interactive,
		IncludeBibtex: flagBibtex,
	})
	var b strings.Builder
	b.WriteString(render.Header(response.Query, cfg.Search.Limit))
	b.WriteByte('\n')
	b.WriteString(r.Render(response.Results))
	text := b.String()

	// Long listings go through the pager on a terminal; fall back to plain
	// output when the pager is missing or fails to start.
	if interactive {
		if err := pipePager(cfg.Render.Pager, text); err == nil {
			return nil
		}
	}
	_, err := io.WriteString(w, text)
	return err
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
