package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paletteview/paletteview-server/internal/config"
	"github.com/paletteview/paletteview-server/internal/logger"
)

func TestOpenStore(t *testing.T) {
	log := logger.New(logger.Config{Writer: discard{}})

	for _, backend := range []string{config.BackendMemory, config.BackendSQLite, config.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			kv, _, err := OpenStore(config.StorageConfig{Backend: backend, DataPath: t.TempDir()}, log)
			require.NoError(t, err)
			defer kv.Close()

			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, "k", "v"))
			got, found, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "v", got)
		})
	}

	_, _, err := OpenStore(config.StorageConfig{Backend: "redis"}, log)
	assert.Error(t, err)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
