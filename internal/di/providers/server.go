package providers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/moodshelf/moodshelf-server/internal/api"
	"github.com/moodshelf/moodshelf-server/internal/config"
	"github.com/moodshelf/moodshelf-server/internal/history"
	"github.com/moodshelf/moodshelf-server/internal/library"
	"github.com/moodshelf/moodshelf-server/internal/ratelimit"
	"github.com/moodshelf/moodshelf-server/internal/service"
)

// RateLimiterHandle wraps the keyed rate limiter with shutdown
// capability so its janitor goroutine stops cleanly.
type RateLimiterHandle struct {
	*ratelimit.KeyedLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-client API rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &RateLimiterHandle{
		KeyedLimiter: ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	recommendations := do.MustInvoke[*service.RecommendationService](i)
	mirror := do.MustInvoke[*library.Mirror](i)
	hist := do.MustInvoke[*history.Service](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	handler := api.NewServer(sessions, recommendations, mirror, hist, limiter.KeyedLimiter, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv}, nil
}
