package palette

import (
	"slices"

	"github.com/paletteview/paletteview-server/internal/domain"
	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
)

// Draft defaults.
const (
	draftBg        = "#ffffff"
	draftNewColor  = "#000000"
	draftResetTint = "#cccccc"
)

// Draft is a palette under construction. It always has at least one color.
type Draft struct {
	Name    string   `json:"name"`
	BgColor string   `json:"bgColor"`
	Colors  []string `json:"colors"`
}

// NewDraft returns an empty draft with a single black swatch.
func NewDraft() *Draft {
	return &Draft{BgColor: draftBg, Colors: []string{draftNewColor}}
}

// AddColor appends a black swatch.
func (d *Draft) AddColor() {
	d.Colors = append(d.Colors, draftNewColor)
}

// RemoveColor removes the swatch at i. It is a no-op, returning false, when
// only one swatch is left or i is out of range.
func (d *Draft) RemoveColor(i int) bool {
	if len(d.Colors) <= 1 || i < 0 || i >= len(d.Colors) {
		return false
	}
	d.Colors = slices.Delete(d.Colors, i, i+1)
	return true
}

// SetColor replaces the swatch at i.
func (d *Draft) SetColor(i int, c string) error {
	if i < 0 || i >= len(d.Colors) {
		return domainerrors.NotFoundf("draft has no color %d", i)
	}
	d.Colors[i] = c
	return nil
}

// Palette returns the draft as a palette.
func (d *Draft) Palette() domain.Palette {
	return domain.Palette{Name: d.Name, BgColor: d.BgColor, Colors: slices.Clone(d.Colors)}
}

// Reset clears the form after a successful save.
func (d *Draft) Reset() {
	d.Name = ""
	d.BgColor = draftBg
	d.Colors = []string{draftResetTint}
}

// Clone returns a deep copy.
func (d *Draft) Clone() Draft {
	return Draft{Name: d.Name, BgColor: d.BgColor, Colors: slices.Clone(d.Colors)}
}
