// Package history tracks listening progress and derives the taste
// signals the scorer consumes: finished/started gates and a bounded
// preference boost from finished books.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/normalize"
)

// Started threshold: below this a book counts as untouched, so a few
// accidental seconds of playback don't mark a series installment as
// in progress.
const StartedThreshold = 0.01

// Preference boost weights. The boost rewards familiarity without
// letting it drown out the mood score.
const (
	GenreBoost    = 4.0
	GenreBoostCap = 12.0

	AuthorBoost    = 6.0
	AuthorBoostCap = 12.0

	TotalBoostCap = 20.0
)

// ProgressStore is the durable backing for progress rows.
type ProgressStore interface {
	UpsertProgress(ctx context.Context, p *domain.ReadingProgress) error
	ListProgress(ctx context.Context) ([]*domain.ReadingProgress, error)
	DeleteProgress(ctx context.Context, bookID string) error
}

// Library resolves finished book IDs to their metadata for the taste
// profile.
type Library interface {
	Get(id string) (*domain.LibraryItem, bool)
}

// Service keeps progress rows in memory, persisting through the sqlite
// store. All methods are safe for concurrent use.
type Service struct {
	store   ProgressStore
	library Library
	logger  *slog.Logger

	mu        sync.RWMutex
	progress  map[string]*domain.ReadingProgress
	genres    map[string]struct{} // normalized genres of finished books
	authors   map[string]struct{} // normalized authors of finished books
	listeners []func()
}

// NewService creates an empty history service. Call Load before
// serving.
func NewService(store ProgressStore, library Library, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		library:  library,
		logger:   logger,
		progress: make(map[string]*domain.ReadingProgress),
		genres:   make(map[string]struct{}),
		authors:  make(map[string]struct{}),
	}
}

// Load reads all persisted rows and builds the taste profile.
func (s *Service) Load(ctx context.Context) error {
	rows, err := s.store.ListProgress(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	s.mu.Lock()
	s.progress = make(map[string]*domain.ReadingProgress, len(rows))
	for _, row := range rows {
		s.progress[row.BookID] = row
	}
	s.rebuildProfileLocked()
	s.mu.Unlock()

	s.logger.Info("reading history loaded", "rows", len(rows))
	return nil
}

// OnChange registers a listener invoked after every progress mutation.
// The recommendation cache invalidates through this hook, since a newly
// finished book changes both gates and boosts.
func (s *Service) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Upsert persists a batch of progress rows and refreshes the profile.
func (s *Service) Upsert(ctx context.Context, rows []*domain.ReadingProgress) error {
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if err := s.store.UpsertProgress(ctx, row); err != nil {
			return err
		}
	}

	s.mu.Lock()
	for _, row := range rows {
		s.progress[row.BookID] = row
	}
	s.rebuildProfileLocked()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	s.notify(listeners)
	return nil
}

// Delete removes one book's history row.
func (s *Service) Delete(ctx context.Context, bookID string) error {
	if err := s.store.DeleteProgress(ctx, bookID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.progress, bookID)
	s.rebuildProfileLocked()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	s.notify(listeners)
	return nil
}

// Get returns one book's progress row.
func (s *Service) Get(bookID string) (*domain.ReadingProgress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.progress[bookID]
	return row, ok
}

// IsFinished reports whether the book has been finished.
func (s *Service) IsFinished(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.progress[id]
	return ok && row.Finished
}

// HasBeenStarted reports whether the book has meaningful progress.
func (s *Service) HasBeenStarted(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.progress[id]
	return ok && !row.Finished && row.Progress > StartedThreshold
}

// HasHistory reports whether any progress rows exist at all. With no
// history the preference boost stage is skipped entirely.
func (s *Service) HasHistory() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.progress) > 0
}

// PreferenceBoost scores an item's overlap with the finished-book taste
// profile: +4 per shared genre (cap 12), +6 for a familiar author
// (cap 12), total capped at 20.
func (s *Service) PreferenceBoost(item *domain.LibraryItem) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var genreBoost float64
	for _, genre := range item.Genres {
		if _, ok := s.genres[normalize.Tag(genre)]; ok {
			genreBoost += GenreBoost
			if genreBoost >= GenreBoostCap {
				genreBoost = GenreBoostCap
				break
			}
		}
	}

	var authorBoost float64
	if item.AuthorName != "" {
		if _, ok := s.authors[normalize.Tag(item.AuthorName)]; ok {
			authorBoost = min(AuthorBoost, AuthorBoostCap)
		}
	}

	return min(genreBoost+authorBoost, TotalBoostCap)
}

// rebuildProfileLocked recomputes the finished-book genre and author
// sets. Caller holds the write lock.
func (s *Service) rebuildProfileLocked() {
	s.genres = make(map[string]struct{})
	s.authors = make(map[string]struct{})

	for id, row := range s.progress {
		if !row.Finished {
			continue
		}
		item, ok := s.library.Get(id)
		if !ok {
			continue
		}
		for _, genre := range item.Genres {
			if g := normalize.Tag(genre); g != "" {
				s.genres[g] = struct{}{}
			}
		}
		if a := normalize.Tag(item.AuthorName); a != "" {
			s.authors[a] = struct{}{}
		}
	}
}

func (s *Service) notify(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}
