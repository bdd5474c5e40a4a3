package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/paletteview/paletteview-server/internal/config"
	"github.com/paletteview/paletteview-server/internal/domain"
	"github.com/paletteview/paletteview-server/internal/export"
	"github.com/paletteview/paletteview-server/internal/logger"
	"github.com/paletteview/paletteview-server/internal/palette"
	"github.com/paletteview/paletteview-server/internal/service"
)

// BuiltinPalettes is the built-in palette list the collection starts with.
type BuiltinPalettes []domain.Palette

// ProvideBuiltinPalettes loads the configured palette file, or the embedded
// set when none is configured.
func ProvideBuiltinPalettes(i do.Injector) (BuiltinPalettes, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Palette.BundledPath == "" {
		return BuiltinPalettes(palette.Bundled()), nil
	}

	builtin, err := palette.LoadBundled(cfg.Palette.BundledPath)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded built-in palettes", "path", cfg.Palette.BundledPath, "count", len(builtin))
	return BuiltinPalettes(builtin), nil
}

// ProvidePaletteService provides the shared palette collection, loaded from
// storage and indexed for search.
func ProvidePaletteService(i do.Injector) (*service.PaletteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	builtin := do.MustInvoke[BuiltinPalettes](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewPaletteService(
		palette.NewStore(storeHandle.KV, builtin, log.Logger),
		indexHandle.Index,
		sseHandle.Manager,
		log.Logger,
	)
	if err := svc.Initialize(context.Background()); err != nil {
		return nil, err
	}

	docCount, _ := indexHandle.DocumentCount()
	log.Info("Palette collection ready", "palettes", svc.Len(), "builtin", len(builtin), "indexed", docCount)

	return svc, nil
}

// ProvideExporter provides the PNG exporter.
func ProvideExporter(i do.Injector) (*export.Exporter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return export.New(export.Config{
		PixelRatio:   cfg.Export.PixelRatio,
		MaxDimension: cfg.Export.MaxDimension,
	}, log.Logger), nil
}
