package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper is implemented by session.Store.
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
	Len() int
}

// SweepIdleSessions runs one pass over the store.
func SweepIdleSessions(store Sweeper, maxIdle time.Duration) int {
	removed := store.Sweep(maxIdle)
	if removed > 0 {
		log.Debug().Int("removed", removed).Int("remaining", store.Len()).Msg("swept idle sessions")
	}
	return removed
}

// RunSessionSweeper sweeps every interval until ctx is done.
func RunSessionSweeper(ctx context.Context, store Sweeper, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Dur("max_idle", maxIdle).Msg("session sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session sweeper stopped")
			return
		case <-ticker.C:
			SweepIdleSessions(store, maxIdle)
		}
	}
}
