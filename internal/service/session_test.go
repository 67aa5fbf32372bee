package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/errors"
	"github.com/moodshelf/moodshelf-server/internal/store"
)

// fakeSessionStore is an in-memory SessionStore.
type fakeSessionStore struct {
	sessions map[string]*domain.MoodSession
	current  string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*domain.MoodSession{}}
}

func (f *fakeSessionStore) SaveSession(_ context.Context, s *domain.MoodSession) error {
	cp := *s
	f.sessions[s.ID] = &cp
	f.current = s.ID
	return nil
}

func (f *fakeSessionStore) CurrentSession(_ context.Context, now time.Time) (*domain.MoodSession, error) {
	if f.current == "" {
		return nil, store.ErrNotFound
	}
	s, ok := f.sessions[f.current]
	if !ok {
		return nil, store.ErrNotFound
	}
	if s.Expired(now) {
		return nil, store.ErrSessionExpired
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) ClearCurrent(_ context.Context) error {
	delete(f.sessions, f.current)
	f.current = ""
	return nil
}

func (f *fakeSessionStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int, error) {
	var n int
	for id, s := range f.sessions {
		if s.Expired(now) {
			delete(f.sessions, id)
			if f.current == id {
				f.current = ""
			}
			n++
		}
	}
	return n, nil
}

// countingCache counts Invalidate calls.
type countingCache struct{ invalidations int }

func (c *countingCache) Invalidate() { c.invalidations++ }

func newSessionService() (*SessionService, *fakeSessionStore, *countingCache) {
	st := newFakeSessionStore()
	cache := &countingCache{}
	return NewSessionService(st, cache, slog.New(slog.DiscardHandler)), st, cache
}

func TestCommit(t *testing.T) {
	svc, st, cache := newSessionService()
	ctx := context.Background()

	session, err := svc.Commit(ctx, CommitInput{
		Mood:   domain.MoodComfort,
		Pace:   domain.PaceSlow,
		Flavor: "enemies to lovers",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, domain.MoodComfort, session.Mood)
	assert.Equal(t, domain.PaceSlow, session.Pace)
	// Unspecified dimensions default to any.
	assert.Equal(t, domain.WeightAny, session.Weight)
	assert.Equal(t, 1, cache.invalidations)
	assert.Equal(t, session.ID, st.current)
}

func TestCommit_InvalidMood(t *testing.T) {
	svc, _, cache := newSessionService()

	_, err := svc.Commit(context.Background(), CommitInput{Mood: "melancholy"})
	assert.ErrorIs(t, err, errors.ErrValidation)
	assert.Zero(t, cache.invalidations)
}

func TestCommit_ReplacesPrevious(t *testing.T) {
	svc, _, _ := newSessionService()
	ctx := context.Background()

	first, err := svc.Commit(ctx, CommitInput{Mood: domain.MoodComfort})
	require.NoError(t, err)
	second, err := svc.Commit(ctx, CommitInput{Mood: domain.MoodThrills})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
}

func TestCurrent_NotCommitted(t *testing.T) {
	svc, _, _ := newSessionService()

	_, err := svc.Current(context.Background())
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestCurrent_Expired(t *testing.T) {
	svc, _, _ := newSessionService()
	ctx := context.Background()

	svc.now = func() time.Time { return time.Now().Add(-13 * time.Hour) }
	_, err := svc.Commit(ctx, CommitInput{Mood: domain.MoodComfort})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Current(ctx)
	assert.ErrorIs(t, err, errors.ErrExpired)
}

func TestTune_ChangesInvalidate(t *testing.T) {
	svc, _, cache := newSessionService()
	ctx := context.Background()

	_, err := svc.Commit(ctx, CommitInput{Mood: domain.MoodComfort})
	require.NoError(t, err)
	require.Equal(t, 1, cache.invalidations)

	pace := domain.PaceFast
	tuned, err := svc.Tune(ctx, domain.TunePatch{Pace: &pace})
	require.NoError(t, err)
	assert.Equal(t, domain.PaceFast, tuned.Pace)
	assert.Equal(t, 2, cache.invalidations)
}

func TestTune_NoopKeepsCache(t *testing.T) {
	svc, _, cache := newSessionService()
	ctx := context.Background()

	_, err := svc.Commit(ctx, CommitInput{Mood: domain.MoodComfort})
	require.NoError(t, err)

	// An empty patch refreshes the TTL but changes nothing the scorer
	// reads, so the cached result stays valid.
	before, err := svc.Current(ctx)
	require.NoError(t, err)
	tuned, err := svc.Tune(ctx, domain.TunePatch{})
	require.NoError(t, err)

	assert.Equal(t, 1, cache.invalidations)
	assert.True(t, tuned.ExpiresAt.After(before.CreatedAt))
}

func TestTune_InvalidValue(t *testing.T) {
	svc, _, _ := newSessionService()
	ctx := context.Background()

	_, err := svc.Commit(ctx, CommitInput{Mood: domain.MoodComfort})
	require.NoError(t, err)

	bad := domain.Pace("frantic")
	_, err = svc.Tune(ctx, domain.TunePatch{Pace: &bad})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestTune_WithoutSession(t *testing.T) {
	svc, _, _ := newSessionService()

	_, err := svc.Tune(context.Background(), domain.TunePatch{})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestClear(t *testing.T) {
	svc, _, cache := newSessionService()
	ctx := context.Background()

	_, err := svc.Commit(ctx, CommitInput{Mood: domain.MoodComfort})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))
	assert.Equal(t, 2, cache.invalidations)

	_, err = svc.Current(ctx)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	// Clearing with nothing committed is fine.
	require.NoError(t, svc.Clear(ctx))
}

func TestSweepExpired(t *testing.T) {
	svc, _, _ := newSessionService()
	ctx := context.Background()

	svc.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }
	_, err := svc.Commit(ctx, CommitInput{Mood: domain.MoodComfort})
	require.NoError(t, err)

	svc.now = time.Now
	n, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
