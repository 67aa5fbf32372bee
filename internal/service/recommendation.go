package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/recs"
)

// Library is the mirror surface the recommendation service reads.
type Library interface {
	Items() []*domain.LibraryItem
	Count() int
}

// RecommendationsOutput is what the API hands the client: either a
// result, or IsScoring while the pass runs.
type RecommendationsOutput struct {
	Session   *domain.MoodSession
	Result    *domain.RecommendationResult
	IsScoring bool
	Stale     bool
}

// RecommendationService connects the cache, the scorer, the mirror and
// the history into the request flow.
type RecommendationService struct {
	sessions *SessionService
	scorer   *recs.Scorer
	cache    *recs.ResultCache
	library  Library
	history  recs.History
	opts     recs.Options
	delay    time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewRecommendationService creates the service. opts come from config;
// the scoring delay is recs.ScoringDelay unless tests shrink it.
func NewRecommendationService(
	sessions *SessionService,
	scorer *recs.Scorer,
	cache *recs.ResultCache,
	library Library,
	history recs.History,
	opts recs.Options,
	logger *slog.Logger,
) *RecommendationService {
	return &RecommendationService{
		sessions: sessions,
		scorer:   scorer,
		cache:    cache,
		library:  library,
		history:  history,
		opts:     opts,
		delay:    recs.ScoringDelay,
		logger:   logger,
		now:      time.Now,
	}
}

// Recommendations returns the cached result for the active session, or
// kicks off an asynchronous scoring pass and reports IsScoring. The
// request path never blocks on scoring.
func (r *RecommendationService) Recommendations(ctx context.Context) (*RecommendationsOutput, error) {
	session, err := r.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}

	out := &RecommendationsOutput{
		Session: session,
		Stale:   session.Stale(r.now()),
	}

	fingerprint := recs.Fingerprint(session)
	if result, ok := r.cache.Lookup(fingerprint, r.library.Count()); ok {
		out.Result = result
		return out, nil
	}

	if reqID, started := r.cache.BeginScoring(); started {
		go r.runPass(reqID, session, fingerprint)
	}
	// Either way a pass is now in flight; the client polls.
	out.IsScoring = true
	return out, nil
}

// Wait blocks until the in-flight pass settles, then returns the fresh
// output. Used by tests and callers that prefer blocking semantics over
// polling.
func (r *RecommendationService) Wait(ctx context.Context) (*RecommendationsOutput, error) {
	session, err := r.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}

	fingerprint := recs.Fingerprint(session)
	result, ok, err := r.cache.Wait(ctx, fingerprint, r.library.Count())
	if err != nil {
		return nil, err
	}
	return &RecommendationsOutput{
		Session:   session,
		Result:    result,
		IsScoring: !ok && r.cache.IsScoring(),
		Stale:     session.Stale(r.now()),
	}, nil
}

// runPass executes one scoring pass off the request path. The initial
// delay batches rapid-fire tunes: if the session changed again before
// it elapses, the pass observes a stale request id and skips the work.
func (r *RecommendationService) runPass(reqID uint64, session *domain.MoodSession, fingerprint string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("scoring pass panicked", "request_id", reqID, "panic", rec)
			r.cache.Abort(reqID)
		}
	}()

	time.Sleep(r.delay)
	if !r.cache.Latest(reqID) {
		r.cache.Abort(reqID)
		return
	}

	items := r.library.Items()
	result := r.scorer.Run(items, session, r.history, r.opts)

	if !r.cache.Complete(reqID, fingerprint, len(items), result) {
		r.logger.Debug("scoring pass superseded", "request_id", reqID)
	}
}
