// Package di provides dependency injection configuration for the
// paletteview server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/paletteview/paletteview-server/internal/config"
	"github.com/paletteview/paletteview-server/internal/di/providers"
	"github.com/paletteview/paletteview-server/internal/export"
	"github.com/paletteview/paletteview-server/internal/logger"
	"github.com/paletteview/paletteview-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage and events
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideBuiltinPalettes)
	do.Provide(injector, providers.ProvidePaletteService)
	do.Provide(injector, providers.ProvideExporter)

	// Workers
	do.Provide(injector, providers.ProvideViewService)
	do.Provide(injector, providers.ProvideExportLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the HTTP server is
// listening in the background.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	if _, err := do.Invoke[providers.BuiltinPalettes](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.PaletteService](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*export.Exporter](injector)

	// Workers
	_ = do.MustInvoke[*providers.ViewServiceHandle](injector)
	_ = do.MustInvoke[*providers.ExportLimiterHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
