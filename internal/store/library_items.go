package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/moodshelf/moodshelf-server/internal/domain"
)

// PutItems upserts a batch of library items in one transaction. Badger
// splits oversized transactions, so the batch API keeps a full library
// sync from doing one commit per item.
func (s *Store) PutItems(_ context.Context, items []*domain.LibraryItem) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal item %s: %w", item.ID, err)
		}
		if err := wb.Set([]byte(itemPrefix+item.ID), data); err != nil {
			return fmt.Errorf("batch item %s: %w", item.ID, err)
		}
	}
	return wb.Flush()
}

// GetItem retrieves a library item by ID.
func (s *Store) GetItem(_ context.Context, id string) (*domain.LibraryItem, error) {
	key := buildKey(itemPrefix, id)
	defer releaseKey(key)

	var item domain.LibraryItem
	if err := s.get(key, &item); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &item, nil
}

// DeleteItem removes a library item. Missing items are not an error.
func (s *Store) DeleteItem(_ context.Context, id string) error {
	key := buildKey(itemPrefix, id)
	defer releaseKey(key)
	return s.delete(key)
}

// ListItems returns every persisted library item, used to warm the
// in-memory mirror at startup. Order is key order; the mirror does not
// care.
func (s *Store) ListItems(_ context.Context) ([]*domain.LibraryItem, error) {
	prefix := []byte(itemPrefix)
	var items []*domain.LibraryItem

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var item domain.LibraryItem
				if err := json.Unmarshal(val, &item); err != nil {
					return fmt.Errorf("unmarshal item %s: %w", it.Item().Key(), err)
				}
				items = append(items, &item)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// ReplaceItems atomically swaps the persisted library for the given
// snapshot: everything under the item prefix is dropped, then the new
// items are written.
func (s *Store) ReplaceItems(ctx context.Context, items []*domain.LibraryItem) error {
	prefix := []byte(itemPrefix)
	var stale [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan stale items: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range stale {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("drop stale item: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush deletes: %w", err)
	}

	return s.PutItems(ctx, items)
}
