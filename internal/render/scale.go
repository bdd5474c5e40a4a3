package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Thumbnail scales img down so its longer side is at most maxSide,
// keeping the aspect ratio. Smaller images are returned unchanged.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}

	var dw, dh int
	if w >= h {
		dw, dh = maxSide, max(1, h*maxSide/w)
	} else {
		dw, dh = max(1, w*maxSide/h), maxSide
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
