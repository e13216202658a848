package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"chat-relay/contract"
)

// StatsWorker logs process health (CPU, RAM, OS status) together with relay
// gauges (connections, active rooms) on a fixed interval.
type StatsWorker struct {
	log      *slog.Logger
	registry contract.IRegistry
	interval time.Duration
}

func NewStatsWorker(log *slog.Logger, registry contract.IRegistry, interval time.Duration) *StatsWorker {
	return &StatsWorker{log: log, registry: registry, interval: interval}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	w.log.Info("Starting stats worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, status, err := getSelfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			w.log.Info("Relay stats",
				"connections", w.registry.ConnectionCount(),
				"rooms", len(w.registry.ActiveRooms()),
				"ram_bytes", rss,
				"cpu_percent", cpu,
				"pid_status", status,
			)
		}
	}
}

// getSelfStats retrieves technical metrics (Memory, CPU, and OS Status) for the given process.
func getSelfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
