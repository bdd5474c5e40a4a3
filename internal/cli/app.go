package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/paletteview/paletteview-server/internal/config"
	"github.com/paletteview/paletteview-server/internal/di/providers"
	"github.com/paletteview/paletteview-server/internal/export"
	"github.com/paletteview/paletteview-server/internal/logger"
	"github.com/paletteview/paletteview-server/internal/palette"
	"github.com/paletteview/paletteview-server/internal/search"
	"github.com/paletteview/paletteview-server/internal/service"
	"github.com/paletteview/paletteview-server/internal/store"
)

type storeOptions struct {
	backend     string
	dataPath    string
	bundledPath string
	logLevel    string
}

// appContext is the palette stack a command runs against.
type appContext struct {
	log      *logger.Logger
	kv       store.KV
	index    *search.Index
	palettes *service.PaletteService
	views    *service.ViewService
}

func (a *appContext) Close() error {
	if a.views != nil {
		a.views.Shutdown()
	}
	if a.index != nil {
		_ = a.index.Close()
	}
	if a.kv != nil {
		return a.kv.Close()
	}
	return nil
}

func openApp(ctx context.Context, opts *storeOptions) (*appContext, error) {
	log := logger.New(logger.Config{
		Writer: os.Stderr,
		Format: "pretty",
		Level:  logger.ParseLevel(opts.logLevel),
	})

	builtin, err := palette.LoadBundled(opts.bundledPath)
	if err != nil {
		return nil, err
	}

	kv, _, err := providers.OpenStore(config.StorageConfig{Backend: opts.backend, DataPath: opts.dataPath}, log)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", opts.backend, err)
	}
	app := &appContext{log: log, kv: kv}

	app.index, err = search.NewIndex(search.Options{Logger: log.Logger})
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.palettes = service.NewPaletteService(palette.NewStore(kv, builtin, log.Logger), app.index, nil, log.Logger)
	if err := app.palettes.Initialize(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	app.views = service.NewViewService(app.palettes, nil, export.New(export.Config{}, log.Logger), service.ViewConfig{}, log.Logger)
	return app, nil
}
