// Package style maps a palette style to the visual attributes of one swatch.
//
// The mapping is a fixed table keyed by style. It holds no state; the same
// inputs always give the same record. Unknown styles map to an empty record.
package style

import (
	"strconv"

	"github.com/paletteview/paletteview-server/internal/domain"
)

// Unit is a CSS length unit.
type Unit string

// Supported units.
const (
	Px      Unit = "px"
	VW      Unit = "vw"
	VH      Unit = "vh"
	Percent Unit = "%"
)

// DefaultSize is the size hint used when none is given.
const DefaultSize = 5

// zIndexBase is added to a swatch position to get its stacking order.
const zIndexBase = 10

// Length is a CSS length such as 50px or 30vh.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// CSS renders the length as a CSS value.
func (l Length) CSS() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + string(l.Unit)
}

// Viewport is the size, in pixels, lengths are resolved against.
type Viewport struct {
	Width  float64
	Height float64
}

// Pixels resolves the length. Percentages are taken of ref, the size of the
// box the length applies to.
func (l Length) Pixels(vp Viewport, ref float64) float64 {
	switch l.Unit {
	case VW:
		return l.Value * vp.Width / 100
	case VH:
		return l.Value * vp.Height / 100
	case Percent:
		return l.Value * ref / 100
	default:
		return l.Value
	}
}

// Attributes describes one swatch. Nil and zero fields are unset.
type Attributes struct {
	Width        *Length `json:"width,omitempty"`
	Height       *Length `json:"height,omitempty"`
	AspectRatio  float64 `json:"aspectRatio,omitempty" doc:"Width divided by height; set when height follows width"`
	BorderRadius *Length `json:"borderRadius,omitempty"`
	// MarginX is applied to both the left and right side; negative values
	// make neighbouring swatches overlap.
	MarginX         *Length `json:"marginX,omitempty"`
	RotateDeg       float64 `json:"rotateDeg,omitempty"`
	ZIndex          *int    `json:"zIndex,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
}

// Empty reports whether no attribute is set.
func (a Attributes) Empty() bool {
	return a == Attributes{}
}

// CSS renders the record as CSS declarations.
func (a Attributes) CSS() map[string]string {
	css := make(map[string]string)
	if a.Width != nil {
		css["width"] = a.Width.CSS()
	}
	if a.Height != nil {
		css["height"] = a.Height.CSS()
	}
	if a.AspectRatio != 0 {
		css["aspect-ratio"] = strconv.FormatFloat(a.AspectRatio, 'f', -1, 64)
	}
	if a.BorderRadius != nil {
		css["border-radius"] = a.BorderRadius.CSS()
	}
	if a.MarginX != nil {
		css["margin-left"] = a.MarginX.CSS()
		css["margin-right"] = a.MarginX.CSS()
	}
	if a.RotateDeg != 0 {
		css["rotate"] = strconv.FormatFloat(a.RotateDeg, 'f', -1, 64) + "deg"
	}
	if a.ZIndex != nil {
		css["z-index"] = strconv.Itoa(*a.ZIndex)
	}
	if a.BackgroundColor != "" {
		css["background-color"] = a.BackgroundColor
	}
	return css
}

func l(v float64, u Unit) *Length { return &Length{Value: v, Unit: u} }

// Resolve returns the attributes for a swatch of color drawn in s.
// index is the swatch position, size the palette's size hint; both optional.
// The first swatch, like one without a position, has no stacking order.
func Resolve(s domain.Style, color string, index, size *int) Attributes {
	a := Attributes{BackgroundColor: color}
	if index != nil && *index != 0 {
		z := *index + zIndexBase
		a.ZIndex = &z
	}

	effectiveSize := DefaultSize
	if size != nil && *size != 0 {
		effectiveSize = *size
	}

	switch s {
	case domain.StyleCircles:
		a.Width, a.Height, a.BorderRadius = l(50, Px), l(50, Px), l(50, Percent)
	case domain.StyleCubes:
		a.Width, a.Height, a.BorderRadius = l(50, Px), l(50, Px), l(10, Px)
	case domain.StyleMediumCircles:
		a.Width, a.Height, a.BorderRadius = l(80, Px), l(80, Px), l(50, Percent)
	case domain.StyleBigCircles:
		a.MarginX, a.Width, a.AspectRatio, a.BorderRadius = l(-5, VW), l(30, VH), 1, l(50, Percent)
	case domain.StyleBigPills:
		a.MarginX = l(-5, VW)
		a.Width = l(20-float64(effectiveSize)/2, VW)
		a.Height, a.BorderRadius = l(80, VH), l(10, VW)
	case domain.StyleDiamonds:
		a.Width, a.Height, a.BorderRadius, a.RotateDeg = l(60, Px), l(60, Px), l(10, Px), 45
	case domain.StyleBigDiamonds:
		a.MarginX, a.Width, a.AspectRatio = l(-2, VW), l(30, VH), 1
		a.RotateDeg, a.BorderRadius = 45, l(10, Px)
	case domain.StyleVerticalPills:
		a.Width, a.Height, a.BorderRadius = l(30, Px), l(80, Px), l(15, Px)
	default:
		return Attributes{}
	}
	return a
}

// Box returns the swatch size in pixels, before rotation.
func (a Attributes) Box(vp Viewport) (w, h float64) {
	if a.Width != nil {
		w = a.Width.Pixels(vp, 0)
	}
	switch {
	case a.Height != nil:
		h = a.Height.Pixels(vp, 0)
	case a.AspectRatio != 0:
		h = w / a.AspectRatio
	}
	return w, h
}

// Radius returns the corner radius in pixels for a box of w by h.
func (a Attributes) Radius(vp Viewport, w, h float64) float64 {
	if a.BorderRadius == nil {
		return 0
	}
	r := a.BorderRadius.Pixels(vp, min(w, h))
	return min(r, w/2, h/2)
}

// Margin returns the horizontal margin in pixels.
func (a Attributes) Margin(vp Viewport) float64 {
	if a.MarginX == nil {
		return 0
	}
	return a.MarginX.Pixels(vp, 0)
}
