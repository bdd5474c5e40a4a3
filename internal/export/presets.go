package export

// Preset is a named target resolution.
type Preset struct {
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

var presets = []Preset{
	{Label: "4K", Width: 3840, Height: 2160},
	{Label: "8K", Width: 7680, Height: 4320},
	{Label: "Full HD", Width: 1920, Height: 1080},
	{Label: "Portrait", Width: 1080, Height: 1920},
	{Label: "HD", Width: 1280, Height: 720},
}

// Presets returns the offered resolutions in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// DefaultPreset is the resolution used when none is chosen.
func DefaultPreset() Preset {
	return Preset{Label: "Full HD", Width: 1920, Height: 1080}
}
