package api

import (
	"github.com/paletteview/paletteview-server/internal/search"
	"github.com/paletteview/paletteview-server/internal/service"
	"github.com/paletteview/paletteview-server/internal/store"
)

// Services groups what the handlers call into.
type Services struct {
	Palettes *service.PaletteService
	Views    *service.ViewService
	Search   *search.Index // health checks only
	Store    store.KV      // health checks only
}
