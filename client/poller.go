package client

import (
	"context"
	"log/slog"
	"time"
)

// PollWorker fetches the current room of its agent once per interval.
// Failures are reported to the user and the loop carries on; there is no retry.
type PollWorker struct {
	log      *slog.Logger
	agent    *Agent
	interval time.Duration
}

func NewPollWorker(log *slog.Logger, agent *Agent, interval time.Duration) *PollWorker {
	return &PollWorker{log: log, agent: agent, interval: interval}
}

func (w *PollWorker) Run(ctx context.Context) error {
	w.log.Debug("Starting poll worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.agent.Poll(ctx); err != nil && ctx.Err() == nil {
				w.log.Debug("Poll failed", "error", err)
				w.agent.out.Error(err)
			}
		}
	}
}
