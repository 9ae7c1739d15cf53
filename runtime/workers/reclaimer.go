package workers

import (
	"context"
	"log/slog"
	"time"
)

// RoomReclaimer is the part of the chat service the reclaim worker drives.
type RoomReclaimer interface {
	ReclaimIdleRooms(now time.Time) []string
}

// ReclaimWorker deletes rooms that stayed empty longer than the idle threshold.
// It runs once per interval until its context is cancelled.
type ReclaimWorker struct {
	log       *slog.Logger
	reclaimer RoomReclaimer
	interval  time.Duration
	clock     func() time.Time
}

func NewReclaimWorker(log *slog.Logger, reclaimer RoomReclaimer, interval time.Duration) *ReclaimWorker {
	return &ReclaimWorker{
		log:       log,
		reclaimer: reclaimer,
		interval:  interval,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

func (w *ReclaimWorker) Run(ctx context.Context) error {
	w.log.Info("Starting room reclaim worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := w.reclaimer.ReclaimIdleRooms(w.clock()); len(removed) > 0 {
				w.log.Debug("Reclaim cycle done", "removed", len(removed))
			}
		}
	}
}
