package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// maxConflictRetries bounds Update retries on transaction conflicts.
const maxConflictRetries = 32

// Badger is a KV backed by a badger database directory.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadger opens (or creates) a badger database at path.
func OpenBadger(path string, logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // A saved palette must survive a crash
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Badger database opened", "path", path)
	}
	return &Badger{db: db, logger: logger}, nil
}

// Get implements KV.
func (s *Badger) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements KV.
func (s *Badger) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Update implements KV. Badger transactions are optimistic; a conflicting
// commit is retried with a fresh read.
func (s *Badger) Update(ctx context.Context, key string, fn UpdateFunc) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.db.Update(func(txn *badger.Txn) error {
			current, found := "", false
			item, err := txn.Get([]byte(key))
			switch {
			case err == nil:
				found = true
				if err := item.Value(func(val []byte) error {
					current = string(val)
					return nil
				}); err != nil {
					return err
				}
			case !errors.Is(err, badger.ErrKeyNotFound):
				return err
			}

			next, err := fn(current, found)
			if err != nil {
				return err
			}
			return txn.Set([]byte(key), []byte(next))
		})

		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrAbort):
			return nil
		case errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries:
			if s.logger != nil {
				s.logger.Debug("update conflict, retrying", "key", key, "attempt", attempt+1)
			}
			continue
		default:
			return fmt.Errorf("update %s: %w", key, err)
		}
	}
}

// Ping implements KV.
func (s *Badger) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// Close implements KV.
func (s *Badger) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing badger database")
	}
	return s.db.Close()
}
