package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paletteview/paletteview-server/internal/store"
	"github.com/paletteview/paletteview-server/internal/store/storetest"
)

func TestMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.KV {
		kv := store.NewMemory()
		t.Cleanup(func() { kv.Close() })
		return kv
	})
}

func TestBadger(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.KV {
		kv, err := store.OpenBadger(t.TempDir(), nil)
		require.NoError(t, err)
		t.Cleanup(func() { kv.Close() })
		return kv
	})
}

func TestBadger_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv, err := store.OpenBadger(dir, nil)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, store.KeyCustomPalettes, `[{"name":"a"}]`))
	require.NoError(t, kv.Close())

	kv, err = store.OpenBadger(dir, nil)
	require.NoError(t, err)
	defer kv.Close()

	v, found, err := kv.Get(ctx, store.KeyCustomPalettes)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"name":"a"}]`, v)
}

func TestMemory_Closed(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, kv.Close())
	assert.Error(t, kv.Ping(context.Background()))
	assert.Error(t, kv.Set(context.Background(), "k", "v"))
}
