package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hyperjump/bibfind/internal/index"
	"github.com/hyperjump/bibfind/internal/models"
)

const (
	maxSuggestDistance = 2
	maxSuggestions     = 3
)

// suggestFields are the term dictionaries consulted for corrections.
var suggestFields = []string{models.FieldTitle, models.FieldAuthor, models.FieldAcronyms}

// Suggester proposes replacement terms for queries that matched nothing,
// using the index's own term dictionaries so every suggestion is guaranteed
// to occur in the bibliography.
type Suggester struct {
	index index.Index
}

// NewSuggester creates a suggester over an open index.
func NewSuggester(idx index.Index) *Suggester {
	return &Suggester{index: idx}
}

// Suggest returns up to maxSuggestions indexed terms within edit distance
// maxSuggestDistance of the query's words, best first. Suggestions are ranked
// by document frequency scaled down by distance; ties break alphabetically.
// Operators, field prefixes, and quotes are ignored; only plain words are
// corrected.
func (s *Suggester) Suggest(query string) []string {
	words := queryWords(query)
	if len(words) == 0 {
		return nil
	}
	dict, err := s.dictionary()
	if err != nil || len(dict) == 0 {
		return nil
	}

	type candidate struct {
		term  string
		score float64
	}
	var candidates []candidate
	seen := make(map[string]bool)
	for _, w := range words {
		for term, count := range dict {
			if term == w || seen[term] {
				continue
			}
			if lengthGap(term, w) > maxSuggestDistance {
				continue
			}
			d := Levenshtein(w, term)
			if d > maxSuggestDistance {
				continue
			}
			seen[term] = true
			candidates = append(candidates, candidate{
				term:  term,
				score: float64(count) / float64(d+1),
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].term < candidates[j].term
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.term
	}
	return out
}

// dictionary merges the term dictionaries of the suggestion fields, summing
// document frequencies for terms indexed under more than one field.
func (s *Suggester) dictionary() (map[string]uint64, error) {
	dict := make(map[string]uint64)
	for _, f := range suggestFields {
		terms, err := s.index.FieldTerms(f)
		if err != nil {
			return nil, err
		}
		for _, tc := range terms {
			dict[tc.Term] += tc.Count
		}
	}
	return dict, nil
}

// queryWords extracts the plain lower-cased words of a query, dropping
// operators, field prefixes, and quotes.
func queryWords(query string) []string {
	parts := strings.FieldsFunc(query, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"'
	})
	words := make([]string, 0, len(parts))
	for _, w := range parts {
		if w == "AND" || w == "OR" {
			continue
		}
		if i := strings.LastIndex(w, ":"); i >= 0 {
			w = w[i+1:]
		}
		if w = strings.ToLower(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func lengthGap(a, b string) int {
	d := len(a) - len(b)
	if d < 0 {
		return -d
	}
	return d
}

// Levenshtein calculates the minimum number of single-character edits
// (insertions, deletions, or substitutions) required to change one string
// into another.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	runesA := []rune(a)
	runesB := []rune(b)

	// Two rows are enough; each iteration only looks one row back.
	prev := make([]int, len(runesB)+1)
	curr := make([]int, len(runesB)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(runesA); i++ {
		curr[0] = i
		for j := 1; j <= len(runesB); j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(runesB)]
}
