// Package sharecode packs a whole palette into a compact, URL-safe string
// so it can travel in a link to a browser that has never seen it.
//
// The code is the palette's JSON, raw DEFLATE compressed, then base64url
// encoded without padding.
package sharecode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/paletteview/paletteview-server/internal/domain"
)

// maxDecoded caps the inflated payload so a hostile link cannot balloon.
const maxDecoded = 64 << 10

// ErrInvalid is returned for any code that does not decode to a usable palette.
var ErrInvalid = errors.New("invalid share code")

var encoding = base64.RawURLEncoding

// Encode returns the share code for p.
func Encode(p domain.Palette) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal palette: %w", err)
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("create deflate writer: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return "", fmt.Errorf("deflate palette: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("deflate palette: %w", err)
	}

	return encoding.EncodeToString(buf.Bytes()), nil
}

// Decode parses a share code. Every failure wraps ErrInvalid.
func Decode(code string) (domain.Palette, error) {
	compressed, err := encoding.DecodeString(code)
	if err != nil {
		return domain.Palette{}, fmt.Errorf("%w: base64: %w", ErrInvalid, err)
	}

	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()

	raw, err := io.ReadAll(io.LimitReader(r, maxDecoded+1))
	if err != nil {
		return domain.Palette{}, fmt.Errorf("%w: inflate: %w", ErrInvalid, err)
	}
	if len(raw) > maxDecoded {
		return domain.Palette{}, fmt.Errorf("%w: payload too large", ErrInvalid)
	}

	var p domain.Palette
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Palette{}, fmt.Errorf("%w: json: %w", ErrInvalid, err)
	}
	if len(p.Colors) == 0 {
		return domain.Palette{}, fmt.Errorf("%w: palette has no colors", ErrInvalid)
	}
	return p, nil
}
