package api

import (
	"context"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/service"
)

// SessionService manages the single active mood session.
type SessionService interface {
	Commit(ctx context.Context, in service.CommitInput) (*domain.MoodSession, error)
	Current(ctx context.Context) (*domain.MoodSession, error)
	Tune(ctx context.Context, patch domain.TunePatch) (*domain.MoodSession, error)
	Clear(ctx context.Context) error
}

// RecommendationService produces ranked results for the active session.
type RecommendationService interface {
	Recommendations(ctx context.Context) (*service.RecommendationsOutput, error)
	Wait(ctx context.Context) (*service.RecommendationsOutput, error)
}

// LibraryService is the mirror surface the API mutates and reads.
type LibraryService interface {
	ReplaceAll(ctx context.Context, items []*domain.LibraryItem) error
	Upsert(ctx context.Context, items []*domain.LibraryItem) error
	Remove(ctx context.Context, id string) error
	Count() int
	Version() uint64
}

// HistoryService records reading progress.
type HistoryService interface {
	Upsert(ctx context.Context, rows []*domain.ReadingProgress) error
	Delete(ctx context.Context, bookID string) error
}
