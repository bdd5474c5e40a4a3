// Package storetest holds the behaviour every store.KV backend must share.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paletteview/paletteview-server/internal/store"
)

// Run exercises a KV created fresh by newKV for each subtest.
func Run(t *testing.T, newKV func(t *testing.T) store.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		kv := newKV(t)
		v, found, err := kv.Get(ctx, store.KeyCustomPalettes)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Set(ctx, "k", "one"))
		require.NoError(t, kv.Set(ctx, "k", "two"))

		v, found, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "two", v)
	})

	t.Run("update sees current value", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Update(ctx, "k", func(cur string, found bool) (string, error) {
			assert.False(t, found)
			return cur + "a", nil
		}))
		require.NoError(t, kv.Update(ctx, "k", func(cur string, found bool) (string, error) {
			assert.True(t, found)
			return cur + "b", nil
		}))

		v, _, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "ab", v)
	})

	t.Run("update error leaves value", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Set(ctx, "k", "keep"))

		boom := errors.New("boom")
		err := kv.Update(ctx, "k", func(string, bool) (string, error) { return "", boom })
		assert.ErrorIs(t, err, boom)

		require.NoError(t, kv.Update(ctx, "k", func(string, bool) (string, error) { return "", store.ErrAbort }))

		v, _, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "keep", v)
	})

	t.Run("concurrent updates do not lose writes", func(t *testing.T) {
		kv := newKV(t)
		const writers = 10

		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, kv.Update(ctx, "k", func(cur string, _ bool) (string, error) {
					return cur + "x", nil
				}))
			}()
		}
		wg.Wait()

		v, _, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Len(t, v, writers)
	})

	t.Run("ping", func(t *testing.T) {
		kv := newKV(t)
		assert.NoError(t, kv.Ping(ctx))
	})
}
