package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/moodshelf/moodshelf-server/internal/config"
	"github.com/moodshelf/moodshelf-server/internal/history"
	"github.com/moodshelf/moodshelf-server/internal/library"
	"github.com/moodshelf/moodshelf-server/internal/recs"
	"github.com/moodshelf/moodshelf-server/internal/service"
)

// ProvideScorer provides the recommendation scorer.
func ProvideScorer(i do.Injector) (*recs.Scorer, error) {
	log := do.MustInvoke[*slog.Logger](i)
	return recs.NewScorer(log), nil
}

// ProvideResultCache provides the single-session result cache, wired to
// invalidate whenever the library mirror or the reading history change.
func ProvideResultCache(i do.Injector) (*recs.ResultCache, error) {
	log := do.MustInvoke[*slog.Logger](i)
	mirror := do.MustInvoke[*library.Mirror](i)
	hist := do.MustInvoke[*history.Service](i)

	cache := recs.NewResultCache(log)
	mirror.OnChange(cache.Invalidate)
	hist.OnChange(cache.Invalidate)

	return cache, nil
}

// ProvideSessionService provides the mood session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cache := do.MustInvoke[*recs.ResultCache](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewSessionService(storeHandle.Store, cache, log), nil
}

// ProvideRecommendationService provides the recommendation service with
// scoring options taken from config.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	scorer := do.MustInvoke[*recs.Scorer](i)
	cache := do.MustInvoke[*recs.ResultCache](i)
	mirror := do.MustInvoke[*library.Mirror](i)
	hist := do.MustInvoke[*history.Service](i)
	log := do.MustInvoke[*slog.Logger](i)

	opts := recs.Options{
		DNAFilterMode:         recs.DNAFilterMode(cfg.Scoring.DNAFilterMode),
		ExcludeFinished:       cfg.Scoring.ExcludeFinished,
		IncludeUntagged:       cfg.Scoring.IncludeUntagged,
		ApplyPreferenceBoosts: cfg.Scoring.PreferenceBoosts,
		MinMatchPercent:       cfg.Scoring.MinMatchPercent,
	}

	return service.NewRecommendationService(sessions, scorer, cache, mirror, hist, opts, log), nil
}
