package providers

import (
	"context"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/moodshelf/moodshelf-server/internal/history"
	"github.com/moodshelf/moodshelf-server/internal/library"
)

// ProvideMirror provides the in-memory library mirror, warmed from the
// Badger store.
func ProvideMirror(i do.Injector) (*library.Mirror, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	mirror := library.NewMirror(storeHandle.Store, log)
	if err := mirror.Warm(context.Background()); err != nil {
		return nil, err
	}

	return mirror, nil
}

// ProvideHistory provides the reading-history service, loaded from the
// SQLite store.
func ProvideHistory(i do.Injector) (*history.Service, error) {
	historyStore := do.MustInvoke[*HistoryStoreHandle](i)
	mirror := do.MustInvoke[*library.Mirror](i)
	log := do.MustInvoke[*slog.Logger](i)

	svc := history.NewService(historyStore.Store, mirror, log)
	if err := svc.Load(context.Background()); err != nil {
		return nil, err
	}

	return svc, nil
}
