// Package ratelimit provides a per-client token-bucket limiter for the
// API. Keys are client addresses; idle entries are pruned so the map
// cannot grow without bound.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL is how long an untouched entry survives before the janitor
// drops it.
const idleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter manages an independent token bucket per key.
type KeyedLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a keyed limiter allowing rps requests per second with the
// given burst, and starts the janitor.
func New(rps float64, burst int) *KeyedLimiter {
	kl := &KeyedLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		done:    make(chan struct{}),
	}
	go kl.janitor()
	return kl
}

// Allow reports whether a request for the key may proceed, consuming a
// token when it does.
func (kl *KeyedLimiter) Allow(key string) bool {
	kl.mu.Lock()
	e, ok := kl.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(kl.limit, kl.burst)}
		kl.entries[key] = e
	}
	e.lastSeen = time.Now()
	kl.mu.Unlock()

	return e.limiter.Allow()
}

// Stop shuts down the janitor.
func (kl *KeyedLimiter) Stop() {
	kl.stopOnce.Do(func() {
		close(kl.done)
	})
}

func (kl *KeyedLimiter) janitor() {
	ticker := time.NewTicker(idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-kl.done:
			return
		case now := <-ticker.C:
			kl.mu.Lock()
			for key, e := range kl.entries {
				if now.Sub(e.lastSeen) > idleTTL {
					delete(kl.entries, key)
				}
			}
			kl.mu.Unlock()
		}
	}
}
