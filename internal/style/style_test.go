package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paletteview/paletteview-server/internal/domain"
)

func intp(v int) *int { return &v }

func TestResolve_Table(t *testing.T) {
	tests := []struct {
		style domain.Style
		want  map[string]string
	}{
		{domain.StyleCircles, map[string]string{"width": "50px", "height": "50px", "border-radius": "50%"}},
		{domain.StyleCubes, map[string]string{"width": "50px", "height": "50px", "border-radius": "10px"}},
		{domain.StyleMediumCircles, map[string]string{"width": "80px", "height": "80px", "border-radius": "50%"}},
		{domain.StyleBigCircles, map[string]string{
			"margin-left": "-5vw", "margin-right": "-5vw", "width": "30vh", "aspect-ratio": "1", "border-radius": "50%",
		}},
		{domain.StyleBigPills, map[string]string{
			"margin-left": "-5vw", "margin-right": "-5vw", "width": "17.5vw", "height": "80vh", "border-radius": "10vw",
		}},
		{domain.StyleDiamonds, map[string]string{"width": "60px", "height": "60px", "rotate": "45deg", "border-radius": "10px"}},
		{domain.StyleBigDiamonds, map[string]string{
			"margin-left": "-2vw", "margin-right": "-2vw", "width": "30vh", "aspect-ratio": "1", "rotate": "45deg", "border-radius": "10px",
		}},
		{domain.StyleVerticalPills, map[string]string{"width": "30px", "height": "80px", "border-radius": "15px"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			want := map[string]string{"background-color": "#ff6b6b"}
			for k, v := range tt.want {
				want[k] = v
			}
			assert.Equal(t, want, Resolve(tt.style, "#ff6b6b", nil, nil).CSS())
		})
	}
}

func TestResolve_CoversEveryStyle(t *testing.T) {
	for _, s := range domain.Styles() {
		assert.False(t, Resolve(s, "#000000", nil, nil).Empty(), s)
	}
}

func TestResolve_UnknownStyleIsEmpty(t *testing.T) {
	a := Resolve(domain.Style("triangles"), "#000000", intp(3), intp(2))
	assert.True(t, a.Empty())
	assert.Empty(t, a.CSS())
}

func TestResolve_ZIndex(t *testing.T) {
	assert.Nil(t, Resolve(domain.StyleCircles, "#000", nil, nil).ZIndex)

	a := Resolve(domain.StyleCircles, "#000", intp(0), nil)
	assert.Nil(t, a.ZIndex)
	assert.NotContains(t, a.CSS(), "z-index")

	a = Resolve(domain.StyleCircles, "#000", intp(1), nil)
	require.NotNil(t, a.ZIndex)
	assert.Equal(t, 11, *a.ZIndex)

	a = Resolve(domain.StyleCircles, "#000", intp(4), nil)
	assert.Equal(t, "14", a.CSS()["z-index"])
}

func TestResolve_BigPillsSize(t *testing.T) {
	assert.Equal(t, "17.5vw", Resolve(domain.StyleBigPills, "#000", nil, intp(0)).Width.CSS())
	assert.Equal(t, "19vw", Resolve(domain.StyleBigPills, "#000", nil, intp(2)).Width.CSS())
	assert.Equal(t, "15vw", Resolve(domain.StyleBigPills, "#000", nil, intp(10)).Width.CSS())
}

func TestAttributes_Box(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 800}

	w, h := Resolve(domain.StyleBigCircles, "#000", nil, nil).Box(vp)
	assert.InDelta(t, 240, w, 0.001)
	assert.InDelta(t, 240, h, 0.001)

	a := Resolve(domain.StyleBigPills, "#000", nil, nil)
	w, h = a.Box(vp)
	assert.InDelta(t, 224, w, 0.001)
	assert.InDelta(t, 640, h, 0.001)
	assert.InDelta(t, -64, a.Margin(vp), 0.001)
	// 10vw is 128px, capped at half the width.
	assert.InDelta(t, 112, a.Radius(vp, w, h), 0.001)

	c := Resolve(domain.StyleCircles, "#000", nil, nil)
	assert.InDelta(t, 25, c.Radius(vp, 50, 50), 0.001)
}
