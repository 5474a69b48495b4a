package index

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"

	"github.com/hyperjump/bibfind/internal/models"
)

// bleveIndex implements Writer and Index on a Bleve index.
type bleveIndex struct {
	index bleve.Index
	batch *bleve.Batch
}

// CreateAt creates a new, empty index at path, open for writing. Rebuilds
// create a fresh directory and swap it into place, so path must not already
// hold an index.
func CreateAt(path string) (Writer, error) {
	im, err := buildIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("failed to build index mapping: %w", err)
	}
	idx, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	return &bleveIndex{index: idx, batch: idx.NewBatch()}, nil
}

// OpenAt opens the existing index at path for searching. Returns ErrNotExists
// when there is nothing at the path.
func OpenAt(path string) (Index, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrNotExists
	}
	idx, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return &bleveIndex{index: idx}, nil
}

// Add stages one document in the pending batch.
func (b *bleveIndex) Add(doc *models.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document has no id")
	}
	if b.batch == nil {
		return fmt.Errorf("index is not open for writing")
	}
	return b.batch.Index(doc.ID, indexFields(doc))
}

// Commit writes the staged batch.
func (b *bleveIndex) Commit() error {
	if b.batch == nil {
		return fmt.Errorf("index is not open for writing")
	}
	if err := b.index.Batch(b.batch); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	b.batch = b.index.NewBatch()
	return nil
}

// indexFields maps a document to its stored fields, leaving absent fields out
// entirely so they are never stored as empty values.
func indexFields(doc *models.Document) map[string]interface{} {
	fields := map[string]interface{}{models.FieldID: doc.ID}
	if doc.Title != "" {
		fields[models.FieldTitle] = doc.Title
	}
	if doc.Author != "" {
		fields[models.FieldAuthor] = doc.Author
	}
	if doc.Year != 0 {
		fields[models.FieldYear] = doc.Year
	}
	if doc.Note != "" {
		fields[models.FieldNote] = doc.Note
	}
	if doc.Bibtex != "" {
		fields[models.FieldBibtex] = doc.Bibtex
	}
	if len(doc.Acronyms) > 0 {
		fields[models.FieldAcronyms] = strings.Join(doc.Acronyms, ",")
	}
	return fields
}

func (b *bleveIndex) Search(ctx context.Context, queryStr string, limit int) ([]*models.SearchResult, int, error) {
	q, err := CompileQuery(queryStr)
	if err != nil {
		return nil, 0, err
	}
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"*"}
	req.IncludeLocations = true
	req.SortBy([]string{"-" + models.FieldYear, "-_score", "_id"})

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}
	results := make([]*models.SearchResult, 0, len(res.Hits))
	for i, hit := range res.Hits {
		results = append(results, hitToResult(hit, i+1))
	}
	return results, int(res.Total), nil
}

func hitToResult(hit *search.DocumentMatch, rank int) *models.SearchResult {
	r := &models.SearchResult{
		ID:     hit.ID,
		Fields: make(map[string]string, len(hit.Fields)),
		Score:  hit.Score,
		Rank:   rank,
	}
	for name, value := range hit.Fields {
		switch name {
		case models.FieldID:
			// already carried as the document ID
		case models.FieldBibtex:
			if s, ok := value.(string); ok {
				r.Bibtex = s
			}
		case models.FieldYear:
			if f, ok := value.(float64); ok {
				r.Year = int(f)
				r.Fields[name] = strconv.Itoa(r.Year)
			}
		default:
			if s, ok := value.(string); ok {
				r.Fields[name] = s
			}
		}
	}
	r.Spans = spansFromLocations(hit.Locations)
	return r
}

// spansFromLocations flattens per-term match locations into per-field byte
// ranges, ordered and with overlaps merged, so the renderer can emphasize
// each matched region exactly once.
func spansFromLocations(locations search.FieldTermLocationMap) map[string][]models.Span {
	if len(locations) == 0 {
		return nil
	}
	spans := make(map[string][]models.Span, len(locations))
	for field, terms := range locations {
		if field == models.FieldID || field == models.FieldBibtex {
			continue
		}
		var all []models.Span
		for _, locs := range terms {
			for _, loc := range locs {
				all = append(all, models.Span{Start: int(loc.Start), End: int(loc.End)})
			}
		}
		if len(all) == 0 {
			continue
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].Start != all[j].Start {
				return all[i].Start < all[j].Start
			}
			return all[i].End < all[j].End
		})
		merged := all[:1]
		for _, s := range all[1:] {
			last := &merged[len(merged)-1]
			if s.Start <= last.End {
				if s.End > last.End {
					last.End = s.End
				}
				continue
			}
			merged = append(merged, s)
		}
		spans[field] = merged
	}
	return spans
}

func (b *bleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *bleveIndex) FieldTerms(field string) ([]TermCount, error) {
	dict, err := b.index.FieldDict(field)
	if err != nil {
		return nil, fmt.Errorf("failed to read term dictionary: %w", err)
	}
	defer func() { _ = dict.Close() }()
	var terms []TermCount
	for {
		entry, err := dict.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to read term dictionary: %w", err)
		}
		if entry == nil {
			break
		}
		terms = append(terms, TermCount{Term: entry.Term, Count: entry.Count})
	}
	return terms, nil
}

func (b *bleveIndex) Close() error {
	b.batch = nil
	return b.index.Close()
}
