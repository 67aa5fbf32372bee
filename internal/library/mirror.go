// Package library holds the in-memory mirror of the media server's
// library. The scorer reads snapshots from here; the badger store keeps
// the mirror warm across restarts.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/moodshelf/moodshelf-server/internal/domain"
)

// Persister is the durable backing for the mirror.
type Persister interface {
	PutItems(ctx context.Context, items []*domain.LibraryItem) error
	DeleteItem(ctx context.Context, id string) error
	ReplaceItems(ctx context.Context, items []*domain.LibraryItem) error
	ListItems(ctx context.Context) ([]*domain.LibraryItem, error)
}

// Mirror is the in-memory library snapshot. All methods are safe for
// concurrent use.
type Mirror struct {
	store  Persister
	logger *slog.Logger

	mu        sync.RWMutex
	items     map[string]*domain.LibraryItem
	version   uint64
	listeners []func()
}

// NewMirror creates an empty mirror. Call Warm to load the persisted
// snapshot.
func NewMirror(store Persister, logger *slog.Logger) *Mirror {
	return &Mirror{
		store:  store,
		logger: logger,
		items:  make(map[string]*domain.LibraryItem),
	}
}

// Warm loads the persisted library into memory. Called once at startup
// before the API starts serving.
func (m *Mirror) Warm(ctx context.Context) error {
	items, err := m.store.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("warm mirror: %w", err)
	}

	m.mu.Lock()
	m.items = make(map[string]*domain.LibraryItem, len(items))
	for _, item := range items {
		m.items[item.ID] = item
	}
	m.version++
	m.mu.Unlock()

	m.logger.Info("library mirror warmed", "items", len(items))
	return nil
}

// OnChange registers a listener invoked after every mutation. The
// recommendation cache hooks in here to invalidate on library drift.
func (m *Mirror) OnChange(fn func()) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// ReplaceAll swaps the whole library for the given snapshot, persisting
// it first so a crash cannot leave memory ahead of disk.
func (m *Mirror) ReplaceAll(ctx context.Context, items []*domain.LibraryItem) error {
	if err := m.store.ReplaceItems(ctx, items); err != nil {
		return err
	}

	next := make(map[string]*domain.LibraryItem, len(items))
	for _, item := range items {
		next[item.ID] = item
	}

	m.mu.Lock()
	m.items = next
	m.version++
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	m.logger.Info("library replaced", "items", len(items))
	m.notify(listeners)
	return nil
}

// Upsert inserts or updates a batch of items.
func (m *Mirror) Upsert(ctx context.Context, items []*domain.LibraryItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := m.store.PutItems(ctx, items); err != nil {
		return err
	}

	m.mu.Lock()
	for _, item := range items {
		m.items[item.ID] = item
	}
	m.version++
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	m.notify(listeners)
	return nil
}

// Remove deletes one item. Removing a missing item is a no-op and does
// not notify.
func (m *Mirror) Remove(ctx context.Context, id string) error {
	m.mu.RLock()
	_, present := m.items[id]
	m.mu.RUnlock()
	if !present {
		return nil
	}

	if err := m.store.DeleteItem(ctx, id); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.items, id)
	m.version++
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	m.notify(listeners)
	return nil
}

// Items returns a snapshot of the library sorted by ID, so repeated
// scoring passes over an unchanged library see identical input order.
func (m *Mirror) Items() []*domain.LibraryItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := slices.Collect(maps.Values(m.items))
	slices.SortFunc(out, func(a, b *domain.LibraryItem) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Get returns one item by ID.
func (m *Mirror) Get(id string) (*domain.LibraryItem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	return item, ok
}

// Count returns the number of items in the mirror.
func (m *Mirror) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Version returns a counter bumped on every mutation. Equal versions
// imply an identical snapshot.
func (m *Mirror) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

func (m *Mirror) notify(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}
