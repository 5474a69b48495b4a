package search

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/bibfind/internal/index"
	"github.com/hyperjump/bibfind/internal/models"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cbindex")
	w, err := index.CreateAt(path)
	if err != nil {
		t.Fatalf("CreateAt: %v", err)
	}
	docs := []*models.Document{
		{
			ID:       "C:GenHalSma12",
			Title:    "Homomorphic Evaluation of the AES Circuit",
			Author:   "Craig Gentry, Shai Halevi, Nigel P. Smart",
			Year:     2012,
			Bibtex:   "@InProceedings{C:GenHalSma12,\n  title = {Homomorphic Evaluation of the {AES} Circuit},\n}",
			Acronyms: []string{"GHS", "GHS12"},
		},
		{
			ID:       "C:New23",
			Title:    "Lattice Signatures Revisited",
			Author:   "Alice Example",
			Year:     2023,
			Acronyms: []string{"E23"},
		},
		{
			ID:       "EC:Mid20",
			Title:    "Lattice Trapdoors",
			Author:   "Bob Sample",
			Year:     2020,
			Acronyms: []string{"S20"},
		},
	}
	for _, d := range docs {
		if err := w.Add(d); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	idx, err := index.OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return NewEngine(idx)
}

func TestEngine_Search(t *testing.T) {
	engine := testEngine(t)
	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "lattice"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Query != "lattice" {
		t.Errorf("Query = %q", resp.Query)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].ID != "C:New23" || resp.Results[1].ID != "EC:Mid20" {
		t.Errorf("order = %s, %s", resp.Results[0].ID, resp.Results[1].ID)
	}
	if resp.Results[0].Rank != 1 || resp.Results[1].Rank != 2 {
		t.Error("ranks must be sequential from 1")
	}
	if resp.QueryTime < 0 {
		t.Errorf("QueryTime = %d", resp.QueryTime)
	}
	if len(resp.Suggestions) != 0 {
		t.Errorf("Suggestions = %v, want none when there are hits", resp.Suggestions)
	}
}

func TestEngine_Search_limitApplied(t *testing.T) {
	engine := testEngine(t)
	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "lattice", Limit: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1", len(resp.Results))
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
}

func TestEngine_Search_bibtexOnRequest(t *testing.T) {
	engine := testEngine(t)
	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "homomorphic"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].Bibtex != "" {
		t.Errorf("Bibtex = %q, want empty without the bibtex flag", resp.Results[0].Bibtex)
	}

	resp, err = engine.Search(context.Background(), &models.SearchQuery{Query: "homomorphic", IncludeBibtex: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !strings.Contains(resp.Results[0].Bibtex, "@InProceedings{C:GenHalSma12") {
		t.Errorf("Bibtex = %q, want the raw entry", resp.Results[0].Bibtex)
	}
}

func TestEngine_Search_emptyQuery(t *testing.T) {
	engine := testEngine(t)
	if _, err := engine.Search(context.Background(), &models.SearchQuery{Query: "  "}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestEngine_Search_parseError(t *testing.T) {
	engine := testEngine(t)
	_, err := engine.Search(context.Background(), &models.SearchQuery{Query: "venue:crypto"})
	if err == nil {
		t.Fatal("expected parse error")
	}
	var parseErr *index.QueryParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *index.QueryParseError, got %T", err)
	}
}

func TestEngine_Search_suggestionsOnZeroHits(t *testing.T) {
	engine := testEngine(t)
	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "lattise"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("Total = %d, want 0", resp.Total)
	}
	found := false
	for _, s := range resp.Suggestions {
		if s == "lattice" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggestions = %v, want to include %q", resp.Suggestions, "lattice")
	}
}

func TestSuggester_ranksByFrequency(t *testing.T) {
	engine := testEngine(t)
	// "lattice" occurs in two documents, so it outranks other candidates at
	// the same edit distance.
	got := engine.suggester.Suggest("lattise")
	if len(got) == 0 || got[0] != "lattice" {
		t.Errorf("Suggest = %v, want lattice first", got)
	}
}

func TestSuggester_emptyQuery(t *testing.T) {
	engine := testEngine(t)
	if got := engine.suggester.Suggest(""); got != nil {
		t.Errorf("Suggest(\"\") = %v, want nil", got)
	}
}
