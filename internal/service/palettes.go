// Package service holds the operations behind the HTTP API and the CLI.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/paletteview/paletteview-server/internal/domain"
	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
	"github.com/paletteview/paletteview-server/internal/normalize"
	"github.com/paletteview/paletteview-server/internal/palette"
	"github.com/paletteview/paletteview-server/internal/search"
	"github.com/paletteview/paletteview-server/internal/sharecode"
	"github.com/paletteview/paletteview-server/internal/sse"
)

// EventEmitter delivers events to connected clients.
type EventEmitter interface {
	Emit(event sse.Event)
	EmitToView(viewID string, event sse.Event)
}

// PaletteEntry is a palette together with its position in the collection.
type PaletteEntry struct {
	Index   int
	Builtin bool
	Slug    string
	Palette domain.Palette
}

// PaletteService owns the shared palette collection: built-ins followed by
// every persisted custom palette.
type PaletteService struct {
	store  *palette.Store
	index  *search.Index
	events EventEmitter
	logger *slog.Logger

	mu   sync.RWMutex
	base *palette.Collection
}

// NewPaletteService creates a palette service. Call Initialize before use.
func NewPaletteService(store *palette.Store, index *search.Index, events EventEmitter, logger *slog.Logger) *PaletteService {
	return &PaletteService{
		store:  store,
		index:  index,
		events: events,
		logger: logger,
		base:   palette.NewCollection(store.Builtin(), nil),
	}
}

// Initialize loads custom palettes and indexes the collection. Storage
// failures leave only the built-ins, so Initialize fails only when
// indexing does.
func (s *PaletteService) Initialize(ctx context.Context) error {
	col := s.store.Initialize(ctx)

	s.mu.Lock()
	s.base = col
	s.mu.Unlock()

	if err := s.index.Sync(col); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "index palettes")
	}

	s.logger.Info("palettes loaded", "builtin", col.BuiltinLen(), "custom", col.Len()-col.BuiltinLen())
	return nil
}

// Collection returns a private copy of the shared collection.
func (s *PaletteService) Collection() *palette.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base.Clone()
}

// Len returns the size of the shared collection.
func (s *PaletteService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base.Len()
}

// Get returns the palette at i.
func (s *PaletteService) Get(i int) (PaletteEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entryLocked(i)
}

func (s *PaletteService) entryLocked(i int) (PaletteEntry, error) {
	p, ok := s.base.At(i)
	if !ok {
		return PaletteEntry{}, domainerrors.NotFoundf("palette %d not found", i)
	}
	return PaletteEntry{Index: i, Builtin: s.base.IsBuiltin(i), Slug: normalize.Slug(p.Name), Palette: p}, nil
}

// List returns every palette in collection order.
func (s *PaletteService) List() []PaletteEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PaletteEntry, 0, s.base.Len())
	for i := range s.base.Len() {
		e, _ := s.entryLocked(i)
		out = append(out, e)
	}
	return out
}

// Search looks palettes up by name, kind or colour. Hits are returned as
// entries in rank order along with the total hit count.
func (s *PaletteService) Search(ctx context.Context, params search.Params) ([]PaletteEntry, uint64, error) {
	res, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PaletteEntry, 0, len(res.Hits))
	for _, h := range res.Hits {
		e, err := s.entryLocked(h.Index)
		if err != nil {
			// Index briefly ahead of or behind the collection during a save.
			continue
		}
		out = append(out, e)
	}
	return out, res.Total, nil
}

// ShareCode returns the customData code for the palette at i.
func (s *PaletteService) ShareCode(i int) (string, error) {
	e, err := s.Get(i)
	if err != nil {
		return "", err
	}
	code, err := sharecode.Encode(e.Palette)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "encode share code")
	}
	return code, nil
}

// Decode parses a share code.
func (s *PaletteService) Decode(code string) (domain.Palette, error) {
	p, err := sharecode.Decode(code)
	if err != nil {
		return domain.Palette{}, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid share code")
	}
	return p, nil
}

// AddCustom saves candidate through col, a session's own collection, then
// publishes the result to the shared collection and the search index.
func (s *PaletteService) AddCustom(ctx context.Context, col *palette.Collection, candidate domain.Palette) (palette.AddResult, error) {
	res, err := s.store.AddCustom(ctx, col, candidate)
	if err != nil {
		return palette.AddResult{}, err
	}

	if res.Persisted == nil {
		// Matched an entry already in col; storage and the shared
		// collection are unchanged.
		return res, nil
	}

	s.mu.Lock()
	// The persisted list only grows, so a shorter list is an older write
	// finishing late.
	if len(res.Persisted) >= len(s.base.Custom()) {
		s.base.ReplaceCustom(res.Persisted)
	}
	snapshot := s.base.Clone()
	s.mu.Unlock()

	if err := s.index.Sync(snapshot); err != nil {
		s.logger.Warn("failed to reindex palettes", "error", err)
	}

	if res.Status == palette.StatusAdded {
		p, _ := col.At(res.Index)
		s.logger.Info("custom palette added", "index", res.Index, "name", p.Name)
		if s.events != nil {
			s.events.Emit(sse.NewPaletteAddedEvent(res.Index, p.Name))
		}
	}
	return res, nil
}
