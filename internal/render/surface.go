// Package render draws a palette view to a raster image.
package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/vector"

	pvcolor "github.com/paletteview/paletteview-server/internal/color"
	"github.com/paletteview/paletteview-server/internal/domain"
	"github.com/paletteview/paletteview-server/internal/style"
)

// Default natural viewport, in CSS pixels.
const (
	DefaultWidth  = 1280
	DefaultHeight = 800
)

// fallbackBg is drawn when no palette is selected.
const fallbackBg = "#ffffff"

// Chrome geometry: three square buttons at the top left and a side panel.
const (
	buttonSize   = 40
	buttonInset  = 16
	buttonGap    = 8
	panelWidth   = 384
	chromeRadius = 6
	buttonRing   = 1
)

var (
	buttonFill = color.RGBA{R: 0xf4, G: 0xf4, B: 0xf5, A: 0xff}
	panelFill  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xf2}
)

// Element is a piece of interactive chrome drawn over the palette.
type Element struct {
	Name   string
	Bounds image.Rectangle

	mu      sync.Mutex
	visible bool
}

// Visible reports whether the element is drawn.
func (e *Element) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

// SetVisible shows or hides the element.
func (e *Element) SetVisible(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = v
}

// Options describe what a Surface shows.
type Options struct {
	Width, Height int
	// Palette is nil when nothing is selected; only the background is drawn.
	Palette    *domain.Palette
	Style      domain.Style
	Fullscreen bool
	PanelOpen  bool
}

// Surface is the rendered view region. Its natural size is fixed; a scale
// transform with a top left origin may be applied for capture.
type Surface struct {
	width, height int
	palette       *domain.Palette
	style         domain.Style
	chrome        []*Element

	mu     sync.Mutex
	scale  float64
	frozen image.Point
}

// NewSurface builds a surface. Chrome is present unless the view is
// fullscreen; the side panel only while it is open.
func NewSurface(opts Options) *Surface {
	s := &Surface{
		width:  opts.Width,
		height: opts.Height,
		style:  opts.Style,
	}
	if s.width <= 0 || s.height <= 0 {
		s.width, s.height = DefaultWidth, DefaultHeight
	}
	if opts.Palette != nil {
		p := opts.Palette.Clone()
		s.palette = &p
	}

	if !opts.Fullscreen {
		for i, name := range []string{"fullscreen", "download", "panel"} {
			x := buttonInset + i*(buttonSize+buttonGap)
			s.chrome = append(s.chrome, &Element{
				Name:    name,
				Bounds:  image.Rect(x, buttonInset, x+buttonSize, buttonInset+buttonSize),
				visible: true,
			})
		}
		if opts.PanelOpen {
			s.chrome = append(s.chrome, &Element{
				Name:    "menu",
				Bounds:  image.Rect(s.width-panelWidth, 0, s.width, s.height),
				visible: true,
			})
		}
	}
	return s
}

// NaturalSize returns the untransformed size.
func (s *Surface) NaturalSize() (w, h int) { return s.width, s.height }

// Chrome returns the interactive elements.
func (s *Surface) Chrome() []*Element { return s.chrome }

// SetTransform scales the surface from its top left corner and pins its
// layout box to w by h so scaling does not reflow it.
func (s *Surface) SetTransform(scale float64, w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scale = scale
	s.frozen = image.Pt(w, h)
}

// ClearTransform removes the scale and the pinned size.
func (s *Surface) ClearTransform() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scale = 0
	s.frozen = image.Point{}
}

// Transformed reports whether a transform or size override is applied.
func (s *Surface) Transformed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale != 0 || s.frozen != image.Point{}
}

// NextFrame returns once the current transform has been laid out. A
// surface lays out synchronously, so it only honours cancellation.
func (s *Surface) NextFrame(ctx context.Context) error {
	return ctx.Err()
}

// Capture rasterises the surface at its current scale times pixelRatio.
func (s *Surface) Capture(ctx context.Context, pixelRatio float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	scale := s.scale
	layoutW, layoutH := s.width, s.height
	if s.frozen != (image.Point{}) {
		layoutW, layoutH = s.frozen.X, s.frozen.Y
	}
	s.mu.Unlock()

	if scale == 0 {
		scale = 1
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	k := scale * pixelRatio
	outW := max(1, int(math.Round(float64(layoutW)*k)))
	outH := max(1, int(math.Round(float64(layoutH)*k)))

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))

	bg := fallbackBg
	if s.palette != nil && s.palette.BgColor != "" {
		bg = s.palette.BgColor
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(pvcolor.RGBA(bg)), image.Point{}, draw.Src)

	if s.palette != nil {
		vp := style.Viewport{Width: float64(layoutW), Height: float64(layoutH)}
		for _, sw := range Layout(*s.palette, s.style, vp) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			fillRoundedRect(dst, sw.X, sw.Y, sw.Width, sw.Height, sw.Radius, sw.RotateDeg, k, pvcolor.RGBA(sw.Color))
		}
	}

	// Buttons are ringed in whichever of black or white reads on bg.
	ink := pvcolor.Contrast(bg)
	for _, e := range s.chrome {
		if !e.Visible() {
			continue
		}
		b := e.Bounds
		x, y, w, h := float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy())
		if e.Name == "menu" {
			fillRoundedRect(dst, x, y, w, h, 0, 0, k, panelFill)
			continue
		}
		fillRoundedRect(dst, x-buttonRing, y-buttonRing, w+2*buttonRing, h+2*buttonRing, chromeRadius+buttonRing, 0, k, ink)
		fillRoundedRect(dst, x, y, w, h, chromeRadius, 0, k, buttonFill)
	}

	return dst, nil
}

// kappa places cubic control points to approximate a quarter circle.
const kappa = 0.5522847498

// fillRoundedRect fills a rectangle with corner radius r, rotated by deg
// around its centre. All inputs are natural pixels; k maps them to dst.
func fillRoundedRect(dst *image.RGBA, x, y, w, h, r, deg, k float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	r = max(0, min(r, w/2, h/2))

	cx, cy := x+w/2, y+h/2
	sin, cos := math.Sincos(deg * math.Pi / 180)
	rotate := func(px, py float64) (float64, float64) {
		dx, dy := px-cx, py-cy
		return (cx + dx*cos - dy*sin) * k, (cy + dx*sin + dy*cos) * k
	}

	// Rasterise only the shape's bounding box, clipped to dst.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, corner := range [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}} {
		px, py := rotate(corner[0], corner[1])
		minX, maxX = min(minX, px), max(maxX, px)
		minY, maxY = min(minY, py), max(maxY, py)
	}
	bb := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY))).
		Intersect(dst.Bounds())
	if bb.Empty() {
		return
	}

	pt := func(px, py float64) (float32, float32) {
		rx, ry := rotate(px, py)
		return float32(rx - float64(bb.Min.X)), float32(ry - float64(bb.Min.Y))
	}

	z := vector.NewRasterizer(bb.Dx(), bb.Dy())
	z.DrawOp = draw.Over

	moveTo := func(px, py float64) { z.MoveTo(pt(px, py)) }
	lineTo := func(px, py float64) { z.LineTo(pt(px, py)) }
	cubeTo := func(x1, y1, x2, y2, x3, y3 float64) {
		ax, ay := pt(x1, y1)
		bx, by := pt(x2, y2)
		ex, ey := pt(x3, y3)
		z.CubeTo(ax, ay, bx, by, ex, ey)
	}

	o := r * (1 - kappa)
	moveTo(x+r, y)
	lineTo(x+w-r, y)
	if r > 0 {
		cubeTo(x+w-o, y, x+w, y+o, x+w, y+r)
	}
	lineTo(x+w, y+h-r)
	if r > 0 {
		cubeTo(x+w, y+h-o, x+w-o, y+h, x+w-r, y+h)
	}
	lineTo(x+r, y+h)
	if r > 0 {
		cubeTo(x+o, y+h, x, y+h-o, x, y+h-r)
	}
	lineTo(x, y+r)
	if r > 0 {
		cubeTo(x, y+o, x+o, y, x+r, y)
	}
	z.ClosePath()

	z.Draw(dst, bb, image.NewUniform(c), image.Point{})
}
