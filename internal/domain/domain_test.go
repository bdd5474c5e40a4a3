package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPalette_Equality(t *testing.T) {
	a := Palette{Name: "Dusk", BgColor: "#000000", Colors: []string{"#ff0000", "#00ff00"}}
	renamed := a
	renamed.Name = "Evening"

	assert.True(t, a.Equal(a.Clone()))
	assert.False(t, a.Equal(renamed))
	assert.True(t, a.SameContent(renamed))

	reordered := Palette{Name: "Dusk", BgColor: "#000000", Colors: []string{"#00ff00", "#ff0000"}}
	assert.False(t, a.SameContent(reordered))
}

func TestPalette_CloneIsDeep(t *testing.T) {
	a := Palette{Colors: []string{"#ff0000"}}
	b := a.Clone()
	b.Colors[0] = "#0000ff"

	assert.Equal(t, "#ff0000", a.Colors[0])
}

func TestParseStyle(t *testing.T) {
	for _, s := range Styles() {
		assert.Equal(t, s, ParseStyle(string(s)))
		assert.True(t, s.Valid())
	}

	assert.Equal(t, DefaultStyle(), ParseStyle("squares"))
	assert.Equal(t, DefaultStyle(), ParseStyle(""))
}
