package sharecode

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paletteview/paletteview-server/internal/domain"
)

func deflate(t *testing.T, raw string) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write([]byte(raw))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return base64.RawURLEncoding.EncodeToString(buf.Bytes())
}

func TestEncodeDecode(t *testing.T) {
	p := domain.Palette{Name: "Sunset", BgColor: "#fff5e6", Colors: []string{"#ff6b6b", "#f7b731"}}

	code, err := Encode(p)
	require.NoError(t, err)
	assert.NotContains(t, code, "=")
	assert.NotContains(t, code, "+")
	assert.NotContains(t, code, "/")

	got, err := Decode(code)
	require.NoError(t, err)
	assert.True(t, p.Equal(got))
}

func TestEncode_Deterministic(t *testing.T) {
	p := domain.Palette{Name: "a", BgColor: "#000000", Colors: []string{"#ffffff"}}
	a, err := Encode(p)
	require.NoError(t, err)
	b, err := Encode(p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"bad base64", "***"},
		{"not deflate", base64.RawURLEncoding.EncodeToString([]byte{0xff, 0xff, 0xff})},
		{"not json", deflate(t, "hello")},
		{"no colors", deflate(t, `{"name":"x","bgColor":"#fff","colors":[]}`)},
		{"too large", deflate(t, `{"name":"`+strings.Repeat("a", maxDecoded)+`","colors":["#000"]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.code)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}
