package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper is the optional periodic task that drives Engine.SweepExpired
// at a fixed interval, per spec §4.9. Grounded on the teacher's
// cleanupExpiredKeys ticker goroutine (server.go) and
// Krishna8167-tempuscache's janitor.go, generalized to sample instead
// of full-scan.
type Sweeper struct {
	engine     *Engine
	interval   time.Duration
	sampleSize int
	log        zerolog.Logger
}

// NewSweeper constructs a Sweeper. It does nothing until Run is called.
func NewSweeper(engine *Engine, interval time.Duration, sampleSize int, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		engine:     engine,
		interval:   interval,
		sampleSize: sampleSize,
		log:        log.With().Str("component", "sweeper").Logger(),
	}
}

// Run ticks at s.interval until ctx is cancelled, calling
// engine.SweepExpired(sampleSize) on each tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.engine.SweepExpired(s.sampleSize)
			if removed > 0 {
				s.log.Debug().Int("removed", removed).Msg("swept expired keys")
			}

			snap := s.engine.Stats().Snapshot()
			s.log.Info().
				Int("live_keys", s.engine.Len()).
				Int64("total_bytes", s.engine.TotalBytes()).
				Uint64("sets", snap.Sets).
				Uint64("hits", snap.Hits).
				Uint64("misses", snap.Misses).
				Uint64("deletes", snap.Deletes).
				Uint64("evictions", snap.Evictions).
				Uint64("eviction_failures", snap.EvictionFailures).
				Msg("cache stats")
		}
	}
}
