package providers

import (
	"github.com/samber/do/v2"

	"github.com/paletteview/paletteview-server/internal/config"
	"github.com/paletteview/paletteview-server/internal/export"
	"github.com/paletteview/paletteview-server/internal/logger"
	"github.com/paletteview/paletteview-server/internal/ratelimit"
	"github.com/paletteview/paletteview-server/internal/service"
)

// ViewServiceHandle wraps the view service with shutdown capability.
type ViewServiceHandle struct {
	*service.ViewService
}

// Shutdown implements do.Shutdownable.
func (h *ViewServiceHandle) Shutdown() error {
	h.ViewService.Shutdown()
	return nil
}

// ProvideViewService provides the view session service and starts its idle
// sweeper.
func ProvideViewService(i do.Injector) (*ViewServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	palettes := do.MustInvoke[*service.PaletteService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	exporter := do.MustInvoke[*export.Exporter](i)

	svc := service.NewViewService(palettes, sseHandle.Manager, exporter, service.ViewConfig{
		IdleTimeout: cfg.View.IdleTimeout,
		Viewport: service.Viewport{
			Width:  cfg.Export.ViewportWidth,
			Height: cfg.Export.ViewportHeight,
		},
	}, log.Logger)

	svc.Start()

	log.Info("View service started", "idle_timeout", cfg.View.IdleTimeout.String())

	return &ViewServiceHandle{ViewService: svc}, nil
}

// ExportLimiterHandle wraps the export rate limiter with shutdown capability.
type ExportLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *ExportLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideExportLimiter provides the per-client export rate limiter.
func ProvideExportLimiter(i do.Injector) (*ExportLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &ExportLimiterHandle{
		KeyedRateLimiter: ratelimit.PerMinute(cfg.Export.RatePerMinute, cfg.Export.Burst),
	}, nil
}
