package workers

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper evicts stale participants and reports how many were removed.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// EvictionWorker triggers a sweep on every tick.
// A failed sweep is logged and the loop goes on: participants that could not
// be evicted are still stale on the next tick.
type EvictionWorker struct {
	log      *slog.Logger
	sweeper  Sweeper
	interval time.Duration
}

func NewEvictionWorker(log *slog.Logger, sweeper Sweeper, interval time.Duration) *EvictionWorker {
	return &EvictionWorker{log: log, sweeper: sweeper, interval: interval}
}

func (w *EvictionWorker) Run(ctx context.Context) error {
	w.log.Info("Starting eviction worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping eviction sweep")
			return nil
		case <-ticker.C:
			evicted, err := w.sweeper.Sweep(ctx)
			if err != nil {
				w.log.Error("Sweep incomplete", "evicted", evicted, "error", err)
				continue
			}
			if evicted > 0 {
				w.log.Debug("Sweep done", "evicted", evicted)
			}
		}
	}
}
