package search

import (
	"strconv"

	"github.com/paletteview/paletteview-server/internal/color"
	"github.com/paletteview/paletteview-server/internal/domain"
	"github.com/paletteview/paletteview-server/internal/normalize"
)

// Kind distinguishes bundled palettes from user palettes.
type Kind string

const (
	KindBuiltin Kind = "builtin"
	KindCustom  Kind = "custom"
)

// Document is the indexed form of one palette.
type Document struct {
	Index      int
	Kind       Kind
	Name       string
	Slug       string
	BgColor    string
	Colors     []string
	ColorCount int
}

// NewDocument builds the document for the palette at index i.
func NewDocument(i int, p domain.Palette, builtin bool) *Document {
	kind := KindCustom
	if builtin {
		kind = KindBuiltin
	}
	colors := make([]string, 0, len(p.Colors))
	for _, c := range p.Colors {
		if n, err := color.Normalize(c); err == nil {
			colors = append(colors, n)
		}
	}
	bg, err := color.Normalize(p.BgColor)
	if err != nil {
		bg = ""
	}
	return &Document{
		Index:      i,
		Kind:       kind,
		Name:       p.Name,
		Slug:       normalize.Slug(p.Name),
		BgColor:    bg,
		Colors:     colors,
		ColorCount: len(p.Colors),
	}
}

// ID is the bleve document id.
func (d *Document) ID() string {
	return docID(d.Index)
}

func docID(i int) string {
	return "palette-" + strconv.Itoa(i)
}

// ToMap keys fields by their mapped names.
func (d *Document) ToMap() map[string]any {
	return map[string]any{
		"index":       float64(d.Index),
		"kind":        string(d.Kind),
		"name":        d.Name,
		"slug":        d.Slug,
		"bg_color":    d.BgColor,
		"colors":      d.Colors,
		"color_count": float64(d.ColorCount),
	}
}
