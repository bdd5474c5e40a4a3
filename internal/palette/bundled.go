package palette

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/paletteview/paletteview-server/internal/domain"
)

//go:embed palettes.json
var bundledJSON []byte

type bundledFile struct {
	Palettes []domain.Palette `json:"palettes"`
}

// Bundled returns the built-in palettes shipped with the binary.
func Bundled() []domain.Palette {
	ps, err := parseBundled(bundledJSON)
	if err != nil {
		// The embedded file is part of the build; a bad one is a build bug.
		panic(fmt.Sprintf("embedded palettes.json: %v", err))
	}
	return ps
}

// LoadBundled reads built-in palettes from path, replacing the embedded
// set. An empty path returns Bundled().
func LoadBundled(path string) ([]domain.Palette, error) {
	if path == "" {
		return Bundled(), nil
	}
	raw, err := os.ReadFile(path) //#nosec G304 -- operator supplied config path
	if err != nil {
		return nil, fmt.Errorf("read bundled palettes: %w", err)
	}
	ps, err := parseBundled(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ps, nil
}

func parseBundled(raw []byte) ([]domain.Palette, error) {
	var f bundledFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode bundled palettes: %w", err)
	}
	for i, p := range f.Palettes {
		if len(p.Colors) == 0 {
			return nil, fmt.Errorf("bundled palette %d (%q) has no colors", i, p.Name)
		}
	}
	return f.Palettes, nil
}
