package domain

import "slices"

// Palette is a named set of colors drawn over a background color.
// The JSON shape is the persisted and shared wire format.
type Palette struct {
	Name    string   `json:"name"`
	BgColor string   `json:"bgColor"`
	Colors  []string `json:"colors"`
}

// Equal reports full structural equality, name included.
func (p Palette) Equal(o Palette) bool {
	return p.Name == o.Name && p.SameContent(o)
}

// SameContent reports whether both palettes draw the same thing: colors
// element-wise equal and the same background. The name is ignored.
func (p Palette) SameContent(o Palette) bool {
	return p.BgColor == o.BgColor && slices.Equal(p.Colors, o.Colors)
}

// Clone returns a deep copy.
func (p Palette) Clone() Palette {
	p.Colors = slices.Clone(p.Colors)
	return p
}
