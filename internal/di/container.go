// Package di provides dependency injection configuration for the MoodShelf server.
package di

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/moodshelf/moodshelf-server/internal/config"
	"github.com/moodshelf/moodshelf-server/internal/di/providers"
	"github.com/moodshelf/moodshelf-server/internal/history"
	"github.com/moodshelf/moodshelf-server/internal/library"
	"github.com/moodshelf/moodshelf-server/internal/recs"
	"github.com/moodshelf/moodshelf-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideHistoryStore)
	do.Provide(injector, providers.ProvideMirror)
	do.Provide(injector, providers.ProvideHistory)

	// Scoring layer
	do.Provide(injector, providers.ProvideScorer)
	do.Provide(injector, providers.ProvideResultCache)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideRecommendationService)

	// Workers
	do.Provide(injector, providers.ProvideSessionSweepJob)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns the first provider
// error encountered. Invocation order follows the dependency graph so
// failures surface close to their cause.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*slog.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HistoryStoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*library.Mirror](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*history.Service](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*recs.Scorer](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*recs.ResultCache](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.SessionService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.RecommendationService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SessionSweepJob](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.RateLimiterHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
