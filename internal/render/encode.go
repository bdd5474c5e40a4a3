package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
)

// Frame is an encoded capture.
type Frame struct {
	PNG   []byte
	Image image.Image
}

// Encode captures s at its natural size and encodes it as PNG.
func Encode(ctx context.Context, s *Surface) (Frame, error) {
	img, err := s.Capture(ctx, 1)
	if err != nil {
		return Frame{}, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Frame{}, fmt.Errorf("encode png: %w", err)
	}
	return Frame{PNG: buf.Bytes(), Image: img}, nil
}
