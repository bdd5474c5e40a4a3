// Package export captures a rendered view region to a PNG at a requested
// resolution.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"

	"github.com/bbrks/go-blurhash"

	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
	"github.com/paletteview/paletteview-server/internal/render"
)

// Filename is the download name of every export.
const Filename = "palette-screenshot.png"

// DefaultMaxDimension bounds export width and height.
const DefaultMaxDimension = 7680

// Element is a piece of interactive chrome that must not appear in exports.
type Element interface {
	Visible() bool
	SetVisible(bool)
}

// Region is the view region being captured.
type Region interface {
	NaturalSize() (w, h int)
	Elements() []Element
	SetTransform(scale float64, w, h int)
	ClearTransform()
	NextFrame(ctx context.Context) error
	Capture(ctx context.Context, pixelRatio float64) (image.Image, error)
}

// SurfaceRegion adapts a render.Surface to Region.
type SurfaceRegion struct {
	*render.Surface
}

// Elements implements Region.
func (r SurfaceRegion) Elements() []Element {
	chrome := r.Chrome()
	out := make([]Element, len(chrome))
	for i, e := range chrome {
		out[i] = e
	}
	return out
}

// Result is a finished capture.
type Result struct {
	Filename string
	PNG      []byte
	Image    image.Image
	Scale    float64
}

// Config controls an Exporter.
type Config struct {
	PixelRatio   float64
	MaxDimension int
}

// Exporter captures regions.
type Exporter struct {
	pixelRatio   float64
	maxDimension int
	logger       *slog.Logger
}

// New creates an Exporter. Zero config values take defaults.
func New(cfg Config, logger *slog.Logger) *Exporter {
	if cfg.PixelRatio <= 0 {
		cfg.PixelRatio = 1
	}
	if cfg.MaxDimension <= 0 {
		cfg.MaxDimension = DefaultMaxDimension
	}
	return &Exporter{pixelRatio: cfg.PixelRatio, maxDimension: cfg.MaxDimension, logger: logger}
}

// MaxDimension returns the largest accepted width or height.
func (e *Exporter) MaxDimension() int { return e.maxDimension }

// Export captures region scaled to fit a w by h box without stretching.
//
// Chrome is hidden and a top left anchored scale is applied for the
// capture only; both are undone before Export returns, whether or not the
// capture succeeded.
func (e *Exporter) Export(ctx context.Context, region Region, w, h int) (Result, error) {
	if w < 1 || h < 1 || w > e.maxDimension || h > e.maxDimension {
		return Result{}, domainerrors.Validationf("export size must be between 1 and %d pixels per side, got %dx%d", e.maxDimension, w, h)
	}

	natW, natH := region.NaturalSize()
	if natW <= 0 || natH <= 0 {
		return Result{}, domainerrors.Internal("view region has no size")
	}

	type hidden struct {
		el   Element
		prev bool
	}
	var restore []hidden
	defer func() {
		for _, hd := range restore {
			hd.el.SetVisible(hd.prev)
		}
	}()
	for _, el := range region.Elements() {
		restore = append(restore, hidden{el: el, prev: el.Visible()})
		el.SetVisible(false)
	}

	scale := math.Min(float64(w)/float64(natW), float64(h)/float64(natH))
	region.SetTransform(scale, natW, natH)
	defer region.ClearTransform()

	if err := region.NextFrame(ctx); err != nil {
		return Result{}, fmt.Errorf("wait for layout: %w", err)
	}

	img, err := region.Capture(ctx, e.pixelRatio)
	if err != nil {
		e.logger.Warn("capture failed", "width", w, "height", h, "error", err)
		return Result{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "capture view")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Result{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "encode png")
	}

	e.logger.Debug("exported view",
		"target", fmt.Sprintf("%dx%d", w, h),
		"size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
		"scale", scale,
		"bytes", buf.Len(),
	)

	return Result{Filename: Filename, PNG: buf.Bytes(), Image: img, Scale: scale}, nil
}

// placeholderSize is the thumbnail side used for BlurHash. The hash is a
// blurry preview, so a tiny source gives the same result much faster.
const placeholderSize = 64

// Placeholder returns a BlurHash of img with 4x3 components.
func Placeholder(img image.Image) (string, error) {
	hash, err := blurhash.Encode(4, 3, render.Thumbnail(img, placeholderSize))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}
