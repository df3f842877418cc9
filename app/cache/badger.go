package cache

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerBackend stores entries in an embedded Badger database using Badger's
// native entry TTL.
type BadgerBackend struct {
	db *badger.DB
}

// OpenBadgerBackend opens a Badger database at dir, or an in-memory one when
// dir is empty.
func OpenBadgerBackend(dir string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	return openBadger(opts.
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1))
}

func openBadger(opts badger.Options) (*BadgerBackend, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

func (b *BadgerBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (b *BadgerBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (b *BadgerBackend) DeleteMatching(ctx context.Context, pattern string) error {
	if !hasGlobMeta(pattern) {
		return b.db.Update(func(txn *badger.Txn) error {
			return txn.Delete([]byte(pattern))
		})
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var keys [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(literalPrefix(pattern))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if ok, _ := path.Match(pattern, string(key)); ok {
				keys = append(keys, key)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	// The batch commits in as many transactions as the match needs.
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
