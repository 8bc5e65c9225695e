package pending

import (
	"context"
	"time"

	"jobpilot-backend/internal/shared/metrics"
	"jobpilot-backend/internal/shared/telemetry"
)

// Reaper periodically removes expired pending actions. It is a safety net:
// ConsumeByToken already refuses expired records, the reaper just keeps the
// table from accumulating dead rows.
type Reaper struct {
	repo     Repo
	interval time.Duration
	now      func() time.Time
}

// NewReaper builds a reaper over repo sweeping every interval.
func NewReaper(repo Repo, interval time.Duration) *Reaper {
	return &Reaper{repo: repo, interval: interval, now: time.Now}
}

// Run sweeps until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	cutoff := r.now().UTC().Add(-TTL)
	n, err := r.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		telemetry.Error("pending action sweep failed", map[string]any{"error": err.Error()})
		return
	}
	if n > 0 {
		metrics.AddPendingActionsReaped(uint64(n))
		telemetry.Info("expired pending actions removed", map[string]any{"count": n})
	}
}
