// Package indexer builds the searchable bibliography index from BibTeX
// sources: parsing, normalization, acronym derivation, preprint merging, and
// the atomic swap of the on-disk index.
package indexer

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/bibfind/internal/bib"
	"github.com/hyperjump/bibfind/internal/index"
	"github.com/hyperjump/bibfind/internal/models"
	"github.com/hyperjump/bibfind/pkg/utils"
)

// Indexer rebuilds the persistent index from bibliography sources.
type Indexer struct {
	sources          []string
	indexPath        string
	preprintPrefixes []string
	logger           *zap.Logger // optional; when set, logs debug events
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (entries parsed, documents
// merged, index swapped, etc.).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(ix *Indexer) { ix.logger = l }
}

// NewIndexer creates an indexer that reads the given BibTeX sources, in
// order, and writes the index at indexPath. Citation keys starting with one
// of preprintPrefixes mark preprint records for duplicate merging.
func NewIndexer(sources []string, indexPath string, preprintPrefixes []string, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		sources:          sources,
		indexPath:        indexPath,
		preprintPrefixes: preprintPrefixes,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Rebuild parses the sources, builds the document set, and replaces the index
// at the target path in one atomic swap. On failure the previous index, if
// any, stays in place and queryable. Returns the number of documents indexed.
func (ix *Indexer) Rebuild(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	entries, err := bib.ReadSources(ix.sources...)
	if err != nil {
		return 0, err
	}
	if ix.logger != nil {
		ix.logger.Debug("indexer parsed sources", zap.Int("entries", len(entries)))
	}

	docs := ix.BuildDocuments(entries)
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tmpPath := ix.indexPath + ".build-" + uuid.New().String()
	writer, err := index.CreateAt(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create index: %w", err)
	}
	for _, doc := range docs {
		if err := writer.Add(doc); err != nil {
			_ = writer.Close()
			_ = os.RemoveAll(tmpPath)
			return 0, fmt.Errorf("failed to add document %s: %w", doc.ID, err)
		}
		if ix.logger != nil {
			ix.logger.Debug("indexer added document",
				zap.String("id", doc.ID),
				zap.String("title", utils.Truncate(doc.Title, 60)))
		}
	}
	if err := writer.Commit(); err != nil {
		_ = writer.Close()
		_ = os.RemoveAll(tmpPath)
		return 0, fmt.Errorf("failed to commit index: %w", err)
	}
	if err := writer.Close(); err != nil {
		_ = os.RemoveAll(tmpPath)
		return 0, fmt.Errorf("failed to close index: %w", err)
	}

	if err := replaceDir(tmpPath, ix.indexPath); err != nil {
		_ = os.RemoveAll(tmpPath)
		return 0, fmt.Errorf("failed to swap index into place: %w", err)
	}
	if ix.logger != nil {
		ix.logger.Debug("indexer swapped index",
			zap.String("path", ix.indexPath), zap.Int("documents", len(docs)))
	}
	return len(docs), nil
}

// BuildDocuments turns parsed entries into the final document set:
// normalization, acronym derivation from the citation key, and preprint
// merging, in that order.
func (ix *Indexer) BuildDocuments(entries []models.RawEntry) []*models.Document {
	docs := make([]*models.Document, 0, len(entries))
	for _, e := range entries {
		doc := Normalize(e)
		doc.Acronyms = Acronyms(e.Key)
		docs = append(docs, doc)
	}
	return MergePreprints(docs, ix.preprintPrefixes)
}

// replaceDir moves newPath into place at path. An existing directory at path
// is moved aside first and removed only once the new one is in place, so a
// failed rename cannot lose the previous index.
func replaceDir(newPath, path string) error {
	backup := path + ".old"
	_ = os.RemoveAll(backup)
	hadPrevious := false
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, backup); err != nil {
			return err
		}
		hadPrevious = true
	}
	if err := os.Rename(newPath, path); err != nil {
		if hadPrevious {
			_ = os.Rename(backup, path)
		}
		return err
	}
	if hadPrevious {
		return os.RemoveAll(backup)
	}
	return nil
}
