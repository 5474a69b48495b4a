// Package utils provides shared utilities for text and logging.
package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// WrapIndent greedy-wraps s to width columns, indenting every line by indent
// spaces. The indent counts toward the width. Runs of whitespace collapse to
// single spaces; a word longer than the available width is kept whole on its
// own line. An empty or all-whitespace s yields an empty string.
func WrapIndent(s string, width, indent int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	if indent < 0 {
		indent = 0
	}
	pad := strings.Repeat(" ", indent)
	avail := width - indent
	if avail < 1 {
		avail = 1
	}
	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if i == 0 {
			b.WriteString(pad)
			b.WriteString(w)
			lineLen = len(w)
			continue
		}
		if lineLen+1+len(w) > avail {
			b.WriteByte('\n')
			b.WriteString(pad)
			b.WriteString(w)
			lineLen = len(w)
			continue
		}
		b.WriteByte(' ')
		b.WriteString(w)
		lineLen += 1 + len(w)
	}
	return b.String()
}
