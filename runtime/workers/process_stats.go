package workers

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ProcessStatsWorker periodically logs the resource usage of the server process.
type ProcessStatsWorker struct {
	log      *slog.Logger
	interval time.Duration
}

func NewProcessStatsWorker(log *slog.Logger, interval time.Duration) *ProcessStatsWorker {
	return &ProcessStatsWorker{log: log, interval: interval}
}

func (w *ProcessStatsWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "error", err)
				continue
			}
			w.log.Info("Process stats",
				"rss_bytes", rss,
				"cpu_percent", cpu,
				"goroutines", runtime.NumGoroutine(),
			)
		}
	}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
