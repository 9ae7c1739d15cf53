package workers

import (
	"chat-rooms/services"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

type StatsSource interface {
	Stats() services.Stats
}

// StatsWorker periodically logs the chat state counters together with the process footprint.
type StatsWorker struct {
	log      *slog.Logger
	source   StatsSource
	interval time.Duration
}

func NewStatsWorker(log *slog.Logger, source StatsSource, interval time.Duration) *StatsWorker {
	return &StatsWorker{log: log, source: source, interval: interval}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	w.log.Info("Starting stats worker", "interval", w.interval)
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
			stats := w.source.Stats()
			attrs := []any{
				"users", stats.Users,
				"users_in_rooms", stats.UsersInRooms,
				"rooms", stats.Rooms,
				"idle_rooms", stats.IdleRooms,
				"messages", stats.Messages,
			}
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Warn("Failed to collect self stats", "err", err)
			} else {
				attrs = append(attrs, "rss_bytes", rss, "cpu_percent", cpu)
			}
			w.log.Info("Heartbeat", attrs...)
		}
	}
}

// selfStats retrieves memory and CPU usage for the given process.
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
