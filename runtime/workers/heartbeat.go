package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"matchroom/store"
)

// HeartbeatWorker periodically logs process health (CPU, RAM, status)
// next to the pool's room and member counts.
type HeartbeatWorker struct {
	log      *slog.Logger
	store    *store.RoomStore
	interval time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, st *store.RoomStore, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, store: st, interval: interval}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
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
			stats := w.store.Stats()
			w.log.Info("Heartbeat",
				"pid_status", status,
				"cpu_percent", cpu,
				"ram_bytes", rss,
				"rooms", stats.TotalRooms,
				"users", stats.TotalUsers)
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
