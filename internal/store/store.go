// Package store persists the small amount of state paletteview keeps on
// disk: string values under string keys.
package store

import (
	"context"
	"errors"
)

// Keys.
const (
	// KeyCustomPalettes holds a JSON array with the custom palettes only.
	KeyCustomPalettes = "custom-palettes"
)

// ErrAbort can be returned from an UpdateFunc to leave the value untouched
// without failing the Update call.
var ErrAbort = errors.New("store: update aborted")

// UpdateFunc receives the current value (found is false when the key is
// absent) and returns the value to write.
type UpdateFunc func(current string, found bool) (string, error)

// KV is a string key-value store.
type KV interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Update atomically reads, transforms and writes the value under key.
	// fn may run more than once if a concurrent writer wins.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	// Ping checks that the backend is usable.
	Ping(ctx context.Context) error
	Close() error
}
