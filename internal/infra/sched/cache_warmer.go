package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// WarmTask loads one cached resource; a cache hit makes it a no-op.
type WarmTask struct {
	Name string
	Load func(ctx context.Context) error
}

// CacheWarmer runs the read-through loaders on startup and on every tick so
// the account id and static listings are rarely fetched on a request path.
type CacheWarmer struct {
	interval time.Duration
	tasks    []WarmTask
	log      *zerolog.Logger
}

func NewCacheWarmer(interval time.Duration, logger *zerolog.Logger, tasks ...WarmTask) *CacheWarmer {
	if interval <= 0 {
		interval = time.Hour
	}
	compLog := logger.With().Str("component", "CacheWarmer").Logger()
	return &CacheWarmer{interval: interval, tasks: tasks, log: &compLog}
}

func (w *CacheWarmer) Run(ctx context.Context) error {
	w.log.Info().Int("tasks", len(w.tasks)).Dur("interval", w.interval).Msg("Starting cache warmer")
	w.warm(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping cache warmer")
			return ctx.Err()
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

// warm runs every task once and reports how many failed. One failure does not stop the rest.
func (w *CacheWarmer) warm(ctx context.Context) int {
	failed := 0
	for _, t := range w.tasks {
		if ctx.Err() != nil {
			return failed
		}
		if err := t.Load(ctx); err != nil {
			failed++
			w.log.Warn().Err(err).Str("task", t.Name).Msg("cache warm failed")
		}
	}
	if failed == 0 {
		w.log.Debug().Msg("cache warm done")
	}
	return failed
}
