package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/paletteview/paletteview-server/internal/config"
	"github.com/paletteview/paletteview-server/internal/logger"
	"github.com/paletteview/paletteview-server/internal/sse"
	"github.com/paletteview/paletteview-server/internal/store"
	"github.com/paletteview/paletteview-server/internal/store/sqlite"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the custom palette store with shutdown capability.
type StoreHandle struct {
	store.KV
	Backend string
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured storage backend.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	kv, path, err := OpenStore(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	log.Info("Storage initialized", "backend", cfg.Storage.Backend, "path", path)

	return &StoreHandle{KV: kv, Backend: cfg.Storage.Backend}, nil
}

// OpenStore opens the backend named by cfg. The returned path is empty for
// the memory backend.
func OpenStore(cfg config.StorageConfig, log *logger.Logger) (store.KV, string, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemory(), "", nil

	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.DataPath, 0o755); err != nil {
			return nil, "", fmt.Errorf("create data directory: %w", err)
		}
		path := filepath.Join(cfg.DataPath, "palettes.db")
		kv, err := sqlite.Open(path, log.Logger)
		if err != nil {
			return nil, "", err
		}
		return kv, path, nil

	case config.BackendBadger, "":
		path := filepath.Join(cfg.DataPath, "db")
		kv, err := store.OpenBadger(path, log.Logger)
		if err != nil {
			return nil, "", err
		}
		return kv, path, nil

	default:
		return nil, "", fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
