// Package palette owns the palette collection: the built-in palettes
// followed by the user's custom ones.
package palette

import (
	"slices"

	"github.com/paletteview/paletteview-server/internal/domain"
)

// Collection is an ordered list of palettes. The first BuiltinLen entries
// are the built-in prefix; the rest is the custom suffix. Entries are only
// ever appended.
type Collection struct {
	builtinLen int
	entries    []domain.Palette
}

// NewCollection builds a collection from built-ins followed by custom.
func NewCollection(builtin, custom []domain.Palette) *Collection {
	entries := make([]domain.Palette, 0, len(builtin)+len(custom))
	for _, p := range builtin {
		entries = append(entries, p.Clone())
	}
	for _, p := range custom {
		entries = append(entries, p.Clone())
	}
	return &Collection{builtinLen: len(builtin), entries: entries}
}

// Len returns the number of palettes.
func (c *Collection) Len() int { return len(c.entries) }

// BuiltinLen returns the length of the built-in prefix.
func (c *Collection) BuiltinLen() int { return c.builtinLen }

// At returns the palette at i.
func (c *Collection) At(i int) (domain.Palette, bool) {
	if i < 0 || i >= len(c.entries) {
		return domain.Palette{}, false
	}
	return c.entries[i].Clone(), true
}

// IsBuiltin reports whether i falls within the built-in prefix.
func (c *Collection) IsBuiltin(i int) bool {
	return i >= 0 && i < c.builtinLen
}

// All returns a copy of every palette in order.
func (c *Collection) All() []domain.Palette {
	out := make([]domain.Palette, len(c.entries))
	for i, p := range c.entries {
		out[i] = p.Clone()
	}
	return out
}

// Custom returns a copy of the custom suffix.
func (c *Collection) Custom() []domain.Palette {
	return c.All()[c.builtinLen:]
}

// IndexOf returns the index of the first palette fully equal to p, or -1.
func (c *Collection) IndexOf(p domain.Palette) int {
	return slices.IndexFunc(c.entries, p.Equal)
}

// IndexOfContent returns the index of the first palette drawing the same
// colors over the same background as p, or -1.
func (c *Collection) IndexOfContent(p domain.Palette) int {
	return slices.IndexFunc(c.entries, p.SameContent)
}

// Append adds p to the end and returns its index.
func (c *Collection) Append(p domain.Palette) int {
	c.entries = append(c.entries, p.Clone())
	return len(c.entries) - 1
}

// ReplaceCustom swaps the custom suffix for custom.
func (c *Collection) ReplaceCustom(custom []domain.Palette) {
	entries := c.entries[:c.builtinLen:c.builtinLen]
	for _, p := range custom {
		entries = append(entries, p.Clone())
	}
	c.entries = entries
}

// Clone returns an independent copy.
func (c *Collection) Clone() *Collection {
	return &Collection{builtinLen: c.builtinLen, entries: c.All()}
}
