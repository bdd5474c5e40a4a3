// Package color parses and normalizes the hex colors palettes are made of.
package color

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Parse parses "#rgb" or "#rrggbb" (case-insensitive).
func Parse(hex string) (colorful.Color, error) {
	s := strings.TrimSpace(hex)
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	if len(s) != 7 || s[0] != '#' {
		return colorful.Color{}, fmt.Errorf("parse color %q: want #rgb or #rrggbb", hex)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return c, nil
}

// Normalize returns hex in lowercase "#rrggbb" form.
func Normalize(hex string) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// RGBA converts hex to an opaque color.RGBA, falling back to black for
// unparseable input so a single bad entry never blocks a render.
func RGBA(hex string) color.RGBA {
	c, err := Parse(hex)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Contrast picks black or white, whichever reads better on bg.
func Contrast(bg string) color.RGBA {
	c, err := Parse(bg)
	if err != nil {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}
