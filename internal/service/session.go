// Package service glues the domain pieces together: session lifecycle
// and the recommendation pipeline behind the API.
package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/errors"
	"github.com/moodshelf/moodshelf-server/internal/id"
	"github.com/moodshelf/moodshelf-server/internal/recs"
	"github.com/moodshelf/moodshelf-server/internal/store"
)

// SessionStore is the persistence surface the session service needs.
type SessionStore interface {
	SaveSession(ctx context.Context, session *domain.MoodSession) error
	CurrentSession(ctx context.Context, now time.Time) (*domain.MoodSession, error)
	ClearCurrent(ctx context.Context) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

// Invalidator is the slice of the result cache the session service
// touches.
type Invalidator interface {
	Invalidate()
}

// CommitInput is a validated draft ready to become the active session.
// Zero-valued dimensions mean "any".
type CommitInput struct {
	Mood             domain.Mood
	Pace             domain.Pace
	Weight           domain.Weight
	World            domain.World
	Length           domain.Length
	Flavor           string
	SeedBookID       string
	ExcludeChildrens bool
}

// SessionService owns the single active mood session.
type SessionService struct {
	store  SessionStore
	cache  Invalidator
	logger *slog.Logger
	now    func() time.Time
}

// NewSessionService creates the session service.
func NewSessionService(st SessionStore, cache Invalidator, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:  st,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Commit turns a draft into the active session, replacing any previous
// one, and invalidates the recommendation cache.
func (s *SessionService) Commit(ctx context.Context, in CommitInput) (*domain.MoodSession, error) {
	now := s.now()

	sid, err := id.Session()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate session id")
	}

	session := domain.NewMoodSession(sid, in.Mood, now)
	if in.Pace != "" {
		session.Pace = in.Pace
	}
	if in.Weight != "" {
		session.Weight = in.Weight
	}
	if in.World != "" {
		session.World = in.World
	}
	if in.Length != "" {
		session.Length = in.Length
	}
	session.Flavor = in.Flavor
	session.SeedBookID = in.SeedBookID
	session.ExcludeChildrens = in.ExcludeChildrens

	if !session.Valid() {
		return nil, errors.Validation("session has an unknown mood or dimension value")
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "save session")
	}

	s.cache.Invalidate()
	s.logger.Info("mood session committed", "session_id", session.ID, "mood", session.Mood)
	return session, nil
}

// Current returns the active session.
func (s *SessionService) Current(ctx context.Context) (*domain.MoodSession, error) {
	session, err := s.store.CurrentSession(ctx, s.now())
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return nil, errors.NotFound("no mood session committed")
	case stderrors.Is(err, store.ErrSessionExpired):
		return nil, errors.Expired("mood session expired")
	case err != nil:
		return nil, errors.Wrap(err, errors.CodeInternal, "load session")
	}
	return session, nil
}

// Tune applies a partial update to the active session. The cache is
// invalidated only when a scoring-relevant field actually changed; a
// patch that merely refreshes the TTL keeps the cached result.
func (s *SessionService) Tune(ctx context.Context, patch domain.TunePatch) (*domain.MoodSession, error) {
	session, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	before := recs.Fingerprint(session)
	session.QuickTune(patch, s.now())
	if !session.Valid() {
		return nil, errors.Validation("tune contains an unknown dimension value")
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "save session")
	}

	if recs.Fingerprint(session) != before {
		s.cache.Invalidate()
	}
	s.logger.Info("mood session tuned", "session_id", session.ID)
	return session, nil
}

// Clear drops the active session (expired or not) and invalidates the
// cache. Clearing when nothing is committed is not an error.
func (s *SessionService) Clear(ctx context.Context) error {
	if err := s.store.ClearCurrent(ctx); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "clear session")
	}
	s.cache.Invalidate()
	s.logger.Info("mood session cleared")
	return nil
}

// SweepExpired removes sessions past their hard TTL. Called
// periodically from the entry point.
func (s *SessionService) SweepExpired(ctx context.Context) (int, error) {
	return s.store.DeleteExpiredSessions(ctx, s.now())
}
