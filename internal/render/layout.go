package render

import (
	"sort"

	"github.com/paletteview/paletteview-server/internal/domain"
	"github.com/paletteview/paletteview-server/internal/style"
)

// Content box spacing, in natural pixels.
const (
	gap        = 24
	padding    = 32
	paddingTop = 64
)

// Swatch is one laid out color. X and Y locate the unrotated box's top
// left corner in natural pixels.
type Swatch struct {
	Color         string
	X, Y          float64
	Width, Height float64
	Radius        float64
	RotateDeg     float64
	Z             int
}

// Layout places the colors of p as a centred, wrapping row inside a
// viewport of vp. Swatches are returned in paint order.
func Layout(p domain.Palette, s domain.Style, vp style.Viewport) []Swatch {
	type item struct {
		sw     Swatch
		margin float64
	}

	items := make([]item, 0, len(p.Colors))
	for i, c := range p.Colors {
		i := i
		a := style.Resolve(s, c, &i, nil)
		if a.Empty() {
			continue
		}
		w, h := a.Box(vp)
		z := 0
		if a.ZIndex != nil {
			z = *a.ZIndex
		}
		items = append(items, item{
			sw: Swatch{
				Color:     c,
				Width:     w,
				Height:    h,
				Radius:    a.Radius(vp, w, h),
				RotateDeg: a.RotateDeg,
				Z:         z,
			},
			margin: a.Margin(vp),
		})
	}

	availW := vp.Width - 2*padding
	availH := vp.Height - paddingTop - padding

	// Greedy line breaking; a line always takes at least one item.
	type line struct {
		start, end int
		width      float64
		height     float64
	}
	var lines []line
	for i := 0; i < len(items); {
		ln := line{start: i}
		for i < len(items) {
			outer := items[i].sw.Width + 2*items[i].margin
			next := ln.width + outer
			if i > ln.start {
				next += gap
			}
			if i > ln.start && next > availW {
				break
			}
			ln.width = next
			ln.height = max(ln.height, items[i].sw.Height)
			i++
		}
		ln.end = i
		lines = append(lines, ln)
	}

	total := 0.0
	for i, ln := range lines {
		if i > 0 {
			total += gap
		}
		total += ln.height
	}

	out := make([]Swatch, 0, len(items))
	y := paddingTop + (availH-total)/2
	for _, ln := range lines {
		x := padding + (availW-ln.width)/2
		for i := ln.start; i < ln.end; i++ {
			it := items[i]
			x += it.margin
			sw := it.sw
			sw.X = x
			sw.Y = y + (ln.height-sw.Height)/2
			out = append(out, sw)
			x += sw.Width + it.margin + gap
		}
		y += ln.height + gap
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}
