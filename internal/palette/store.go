package palette

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/paletteview/paletteview-server/internal/domain"
	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
	"github.com/paletteview/paletteview-server/internal/normalize"
	"github.com/paletteview/paletteview-server/internal/store"
)

// Status tells the caller what a save did.
type Status string

// Save outcomes.
const (
	StatusAdded         Status = "added"
	StatusAlreadyExists Status = "already_exists"
)

// AddResult is the outcome of AddCustom.
type AddResult struct {
	// Index of the saved palette, or of the existing one it matched.
	Index  int    `json:"index"`
	Status Status `json:"status" enum:"added,already_exists"`

	// Persisted is the custom list written to storage, nil when the save
	// matched an entry without writing.
	Persisted []domain.Palette `json:"-"`
}

// Store merges built-in palettes with the custom ones kept in a KV.
type Store struct {
	kv      store.KV
	builtin []domain.Palette
	logger  *slog.Logger
}

// NewStore creates a Store over kv with the given built-in palettes.
func NewStore(kv store.KV, builtin []domain.Palette, logger *slog.Logger) *Store {
	return &Store{kv: kv, builtin: builtin, logger: logger}
}

// Builtin returns a copy of the built-in palettes.
func (s *Store) Builtin() []domain.Palette {
	out := make([]domain.Palette, len(s.builtin))
	for i, p := range s.builtin {
		out[i] = p.Clone()
	}
	return out
}

// Initialize builds a collection from the built-ins and the persisted
// custom palettes. Unreadable or malformed persisted data is logged and
// ignored; Initialize never fails.
func (s *Store) Initialize(ctx context.Context) *Collection {
	custom, err := s.LoadCustom(ctx)
	if err != nil {
		s.logger.Warn("loading custom palettes failed, using built-ins only", "error", err)
		custom = nil
	}
	return NewCollection(s.builtin, custom)
}

// LoadCustom returns the persisted custom palettes.
func (s *Store) LoadCustom(ctx context.Context) ([]domain.Palette, error) {
	raw, found, err := s.kv.Get(ctx, store.KeyCustomPalettes)
	if err != nil {
		return nil, fmt.Errorf("read custom palettes: %w", err)
	}
	if !found {
		return nil, nil
	}
	return s.decodeCustom(raw)
}

func (s *Store) decodeCustom(raw string) ([]domain.Palette, error) {
	var ps []domain.Palette
	if err := json.Unmarshal([]byte(raw), &ps); err != nil {
		return nil, fmt.Errorf("decode custom palettes: %w", err)
	}
	valid := ps[:0]
	for i, p := range ps {
		if len(p.Colors) == 0 {
			s.logger.Warn("dropping persisted palette without colors", "position", i, "name", p.Name)
			continue
		}
		valid = append(valid, p)
	}
	return valid, nil
}

// AddCustom saves candidate into col.
//
// A blank name or an empty color list is a validation error and changes
// nothing. A palette drawing the same colors over the same background as an
// existing entry is not added again; the existing index is returned with
// StatusAlreadyExists. Otherwise the candidate is appended and the whole
// custom suffix is persisted.
//
// The write re-reads the persisted list first, so palettes saved by another
// session in the meantime are kept. After a successful write the custom
// suffix of col equals the persisted list.
func (s *Store) AddCustom(ctx context.Context, col *Collection, candidate domain.Palette) (AddResult, error) {
	candidate = candidate.Clone()
	candidate.Name = normalize.Name(candidate.Name)
	if candidate.Name == "" {
		return AddResult{}, domainerrors.Validation("palette name is required")
	}
	if len(candidate.Colors) == 0 {
		return AddResult{}, domainerrors.Validation("palette needs at least one color")
	}

	if i := col.IndexOfContent(candidate); i >= 0 {
		return AddResult{Index: i, Status: StatusAlreadyExists}, nil
	}

	var (
		merged []domain.Palette
		added  bool
	)
	err := s.kv.Update(ctx, store.KeyCustomPalettes, func(current string, found bool) (string, error) {
		var persisted []domain.Palette
		if found {
			var err error
			if persisted, err = s.decodeCustom(current); err != nil {
				s.logger.Warn("overwriting malformed custom palettes", "error", err)
				persisted = nil
			}
		}

		merged, added = mergeCustom(persisted, col.Custom(), candidate)
		raw, err := json.Marshal(merged)
		if err != nil {
			return "", fmt.Errorf("encode custom palettes: %w", err)
		}
		return string(raw), nil
	})
	if err != nil {
		return AddResult{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "persist custom palettes")
	}

	col.ReplaceCustom(merged)

	status := StatusAdded
	if !added {
		// Another session saved the same content first.
		status = StatusAlreadyExists
	}
	return AddResult{Index: col.IndexOfContent(candidate), Status: status, Persisted: merged}, nil
}

// mergeCustom returns persisted followed by every session entry and then
// the candidate, skipping exact duplicates. The candidate is skipped, and
// added is false, when its content is already present.
func mergeCustom(persisted, session []domain.Palette, candidate domain.Palette) (out []domain.Palette, added bool) {
	out = make([]domain.Palette, 0, len(persisted)+len(session)+1)
	contains := func(p domain.Palette) bool {
		for _, q := range out {
			if q.Equal(p) {
				return true
			}
		}
		return false
	}
	for _, p := range persisted {
		if !contains(p) {
			out = append(out, p)
		}
	}
	for _, p := range session {
		if !contains(p) {
			out = append(out, p)
		}
	}
	for _, q := range out {
		if q.SameContent(candidate) {
			return out, false
		}
	}
	return append(out, candidate), true
}
