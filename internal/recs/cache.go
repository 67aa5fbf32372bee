package recs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/moodshelf/moodshelf-server/internal/domain"
)

// Cache tuning.
const (
	// DriftTolerance is the maximum library item-count drift a cached
	// result survives; anything larger forces recomputation.
	DriftTolerance = 5

	// ScoringDelay defers the pass off the request path long enough for
	// a client to render its progress state first.
	ScoringDelay = 100 * time.Millisecond

	// ScoringTimeout is the safety valve against a stuck pass, not a
	// performance target. It resets the scoring flag even if the pass
	// silently never resolves.
	ScoringTimeout = 60 * time.Second
)

type cacheEntry struct {
	fingerprint string
	itemCount   int
	result      *domain.RecommendationResult
	storedAt    time.Time
}

// ResultCache memoizes one scoring pass keyed by session fingerprint
// and library size, and owns the idle -> scoring -> cached state
// machine. Writes happen only at the transition points; any number of
// readers may poll concurrently.
//
// At most one scoring pass is in flight at a time. A request arriving
// while one is in flight observes scoring=true and waits for that
// result instead of starting a duplicate.
type ResultCache struct {
	mu      sync.Mutex
	entry   *cacheEntry
	scoring bool
	// reqID increases monotonically; a pass may only complete while its
	// id is still the latest, which is how invalidation cancels pending
	// work without racing the cache write.
	reqID       uint64
	done        chan struct{}
	timeout     *time.Timer
	safetyLimit time.Duration
	logger      *slog.Logger
}

// NewResultCache creates an idle cache.
func NewResultCache(logger *slog.Logger) *ResultCache {
	return &ResultCache{
		safetyLimit: ScoringTimeout,
		logger:      logger,
	}
}

// Lookup returns the cached result when the fingerprint matches exactly
// and the item count is within DriftTolerance. Any mismatch is silently
// a miss, never an error.
func (c *ResultCache) Lookup(fingerprint string, itemCount int) (*domain.RecommendationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil || c.entry.fingerprint != fingerprint {
		return nil, false
	}
	drift := c.entry.itemCount - itemCount
	if drift < 0 {
		drift = -drift
	}
	if drift > DriftTolerance {
		return nil, false
	}
	return c.entry.result, true
}

// IsScoring reports whether a pass is in flight.
func (c *ResultCache) IsScoring() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scoring
}

// BeginScoring claims the single scoring slot. It returns the request
// id to complete with and started=true when the caller should run the
// pass; started=false means one is already in flight.
func (c *ResultCache) BeginScoring() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scoring {
		return 0, false
	}
	c.scoring = true
	c.reqID++
	c.done = make(chan struct{})

	id := c.reqID
	c.timeout = time.AfterFunc(c.safetyLimit, func() {
		c.expire(id)
	})
	return id, true
}

// Latest reports whether the request id is still the current one. A
// pending pass checks this after the scheduling delay and skips the
// heavy computation when it lost.
func (c *ResultCache) Latest(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scoring && c.reqID == id
}

// Complete stores the result and flips scoring off, but only when the
// request id is still the latest - a pass superseded by invalidation or
// the safety timeout must never overwrite a newer request's state.
func (c *ResultCache) Complete(id uint64, fingerprint string, itemCount int, result *domain.RecommendationResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.scoring || c.reqID != id {
		return false
	}
	c.entry = &cacheEntry{
		fingerprint: fingerprint,
		itemCount:   itemCount,
		result:      result,
		storedAt:    time.Now(),
	}
	c.finishLocked()
	return true
}

// Abort clears the scoring flag without writing an entry; used when the
// pass failed or was cancelled. A subsequent request retries from
// scratch.
func (c *ResultCache) Abort(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.scoring || c.reqID != id {
		return
	}
	c.finishLocked()
}

// Invalidate drops the cache entry and cancels any in-flight pass,
// regardless of state. Called whenever a scoring-relevant session field
// changes, the session is cleared or recommitted, or reading history
// moves.
func (c *ResultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = nil
	c.reqID++ // orphan any in-flight pass
	if c.scoring {
		c.finishLocked()
	}
}

// Wait blocks until the in-flight pass (if any) settles or the context
// is done. It returns the fresh lookup result afterwards.
func (c *ResultCache) Wait(ctx context.Context, fingerprint string, itemCount int) (*domain.RecommendationResult, bool, error) {
	c.mu.Lock()
	done := c.done
	scoring := c.scoring
	c.mu.Unlock()

	if scoring && done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
	r, ok := c.Lookup(fingerprint, itemCount)
	return r, ok, nil
}

// expire is the safety-timeout path: reset the scoring flag so clients
// never see a permanently stuck loading state.
func (c *ResultCache) expire(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.scoring || c.reqID != id {
		return
	}
	if c.logger != nil {
		c.logger.Warn("scoring pass timed out", "request_id", id)
	}
	c.reqID++ // the stuck pass must not complete late
	c.finishLocked()
}

// finishLocked clears the scoring state. Callers hold c.mu.
func (c *ResultCache) finishLocked() {
	c.scoring = false
	if c.timeout != nil {
		c.timeout.Stop()
		c.timeout = nil
	}
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}
