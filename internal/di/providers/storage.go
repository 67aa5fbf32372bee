package providers

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/moodshelf/moodshelf-server/internal/config"
	"github.com/moodshelf/moodshelf-server/internal/store"
	"github.com/moodshelf/moodshelf-server/internal/store/sqlite"
)

// StoreHandle wraps the Badger store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the Badger store holding sessions and the
// library mirror.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	if err := os.MkdirAll(cfg.Storage.SessionPath, 0o750); err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Storage.SessionPath, log)
	if err != nil {
		return nil, err
	}

	log.Info("Session store initialized", "path", cfg.Storage.SessionPath)

	return &StoreHandle{Store: db}, nil
}

// HistoryStoreHandle wraps the SQLite reading-history store with
// shutdown capability.
type HistoryStoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *HistoryStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideHistoryStore provides the SQLite store for reading progress.
func ProvideHistoryStore(i do.Injector) (*HistoryStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.HistoryPath), 0o750); err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.Storage.HistoryPath, log)
	if err != nil {
		return nil, err
	}

	log.Info("History store initialized", "path", cfg.Storage.HistoryPath)

	return &HistoryStoreHandle{Store: db}, nil
}
