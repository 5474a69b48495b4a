package indexer

import (
	"strings"

	"github.com/hyperjump/bibfind/internal/models"
)

// MergePreprints folds preprint records into the published records that share
// their exact title. A published record whose title matches a preprint takes
// over the preprint's note (typically the archive URL), keeping its own note
// when the preprint has none, and the matched preprint is dropped from the
// returned set. Preprints with no published counterpart pass through
// unchanged. When several preprints share one title, the last one in input
// order wins and the earlier ones survive as separate documents.
func MergePreprints(docs []*models.Document, preprintPrefixes []string) []*models.Document {
	type preprint struct {
		id   string
		note string
	}
	byTitle := make(map[string]preprint)
	for _, d := range docs {
		if d.Title != "" && isPreprint(d.ID, preprintPrefixes) {
			byTitle[d.Title] = preprint{id: d.ID, note: d.Note}
		}
	}
	if len(byTitle) == 0 {
		return docs
	}

	merged := make(map[string]bool, len(byTitle))
	for _, d := range docs {
		if d.Title == "" || isPreprint(d.ID, preprintPrefixes) {
			continue
		}
		p, ok := byTitle[d.Title]
		if !ok {
			continue
		}
		if p.note != "" {
			d.Note = p.note
		}
		merged[p.id] = true
	}
	if len(merged) == 0 {
		return docs
	}

	kept := docs[:0]
	for _, d := range docs {
		if !merged[d.ID] {
			kept = append(kept, d)
		}
	}
	return kept
}

func isPreprint(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
