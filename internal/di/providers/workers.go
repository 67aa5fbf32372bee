package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/do/v2"

	"github.com/moodshelf/moodshelf-server/internal/config"
	"github.com/moodshelf/moodshelf-server/internal/service"
)

// SessionSweepJob runs periodic expired-session cleanup.
type SessionSweepJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionSweepJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionSweepJob provides the periodic expired-session sweeper.
func ProvideSessionSweepJob(i do.Injector) (*SessionSweepJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*slog.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(cfg.Session.SweepInterval)
		defer ticker.Stop()

		// Initial sweep on startup.
		if count, err := sessions.SweepExpired(ctx); err != nil {
			log.Warn("Initial session sweep failed", "error", err)
		} else if count > 0 {
			log.Info("Initial session sweep completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := sessions.SweepExpired(ctx); err != nil {
					log.Warn("Session sweep failed", "error", err)
				} else if count > 0 {
					log.Info("Session sweep completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session sweep job started", "interval", cfg.Session.SweepInterval)

	return &SessionSweepJob{cancel: cancel}, nil
}
