package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-relay/contract"
)

// ReaperWorker sweeps the registry on a fixed interval and evicts
// connections idle past the threshold. A safety net for disconnects the
// transport never observed.
type ReaperWorker struct {
	log       *slog.Logger
	registry  contract.IRegistry
	interval  time.Duration
	threshold time.Duration
}

func NewReaperWorker(
	log *slog.Logger,
	registry contract.IRegistry,
	interval time.Duration,
	threshold time.Duration,
) *ReaperWorker {
	return &ReaperWorker{log: log, registry: registry, interval: interval, threshold: threshold}
}

func (w *ReaperWorker) Run(ctx context.Context) error {
	w.log.Info("Starting reaper worker", "interval", w.interval, "threshold", w.threshold)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			w.registry.EvictIdleSince(w.threshold, now.UTC())
		}
	}
}
