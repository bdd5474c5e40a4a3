package color

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#FF6B6B", "#ff6b6b"},
		{"#fff", "#ffffff"},
		{" #000000 ", "#000000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "red", "#12345", "ff6b6b"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestRGBA(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff}, RGBA("#ff6b6b"))
	assert.Equal(t, color.RGBA{A: 0xff}, RGBA("not-a-color"))
}

func TestContrast(t *testing.T) {
	assert.Equal(t, color.RGBA{A: 0xff}, Contrast("#ffffff"))
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, Contrast("#000000"))
}
