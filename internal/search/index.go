// Package search indexes palette names and colours for lookup.
package search

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/paletteview/paletteview-server/internal/logger"
	"github.com/paletteview/paletteview-server/internal/palette"
)

// Index wraps an in-memory bleve index of palettes.
//
// All methods are safe for concurrent use.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the index.
type Options struct {
	Logger *slog.Logger // discard if nil
}

// NewIndex creates an empty index. Palettes are rebuilt from storage at
// startup, so nothing is kept on disk.
func NewIndex(opts Options) (*Index, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Index{index: idx, logger: log}, nil
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexDocument indexes a single document, replacing any previous version.
func (s *Index) IndexDocument(doc *Document) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(doc.ID(), doc.ToMap())
}

// IndexDocuments indexes documents in batches.
func (s *Index) IndexDocuments(docs []*Document) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.ID(), doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID(), err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// Sync makes the index mirror col. Entries past the collection length from
// an earlier sync are removed.
func (s *Index) Sync(col *palette.Collection) error {
	entries := col.All()
	docs := make([]*Document, len(entries))
	for i, p := range entries {
		docs[i] = NewDocument(i, p, col.IsBuiltin(i))
	}
	if err := s.IndexDocuments(docs); err != nil {
		return err
	}

	count, err := s.DocumentCount()
	if err != nil {
		return err
	}
	if int(count) > len(docs) {
		s.mu.RLock()
		batch := s.index.NewBatch()
		for i := len(docs); i < int(count); i++ {
			batch.Delete(docID(i))
		}
		err = s.index.Batch(batch)
		s.mu.RUnlock()
		if err != nil {
			return fmt.Errorf("prune index: %w", err)
		}
	}

	s.logger.Debug("search index synced", "palettes", len(docs))
	return nil
}

// DocumentCount returns the number of indexed palettes.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}
