package domain

import "slices"

// Style identifies how palette colors are drawn.
type Style string

// Enumerated styles. Order matters: the first one is the default and the
// list is what clients offer in their style menu.
const (
	StyleCircles       Style = "circles"
	StyleCubes         Style = "cubes"
	StyleMediumCircles Style = "medium-circles"
	StyleBigCircles    Style = "big-circles"
	StyleBigPills      Style = "big-pills"
	StyleDiamonds      Style = "diamonds"
	StyleVerticalPills Style = "vertical-pills"
	StyleBigDiamonds   Style = "big-diamonds"
)

var styles = []Style{
	StyleCircles,
	StyleCubes,
	StyleMediumCircles,
	StyleBigCircles,
	StyleBigPills,
	StyleDiamonds,
	StyleVerticalPills,
	StyleBigDiamonds,
}

// Styles returns the enumerated styles in display order.
func Styles() []Style {
	return slices.Clone(styles)
}

// DefaultStyle is the style used when none, or an unknown one, is requested.
func DefaultStyle() Style {
	return styles[0]
}

// Valid reports whether s is one of the enumerated styles.
func (s Style) Valid() bool {
	return slices.Contains(styles, s)
}

// ParseStyle returns the style named by v, or the default when v is not a
// member of the enumerated set.
func ParseStyle(v string) Style {
	if s := Style(v); s.Valid() {
		return s
	}
	return DefaultStyle()
}
