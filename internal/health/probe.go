package health

import (
	"context"
	"log/slog"
	"time"
)

const probeTimeout = 5 * time.Second

// Pinger is anything whose liveness can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusSetter receives probe results.
type StatusSetter interface {
	SetStorageServing(ok bool)
}

// StartProbe pings target immediately and then every interval, reporting
// each result to dst. It stops when ctx is done.
func StartProbe(ctx context.Context, target Pinger, dst StatusSetter, interval time.Duration) {
	probe(ctx, target, dst)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Storage probe started", "interval", interval)

		for {
			select {
			case <-ticker.C:
				probe(ctx, target, dst)
			case <-ctx.Done():
				slog.Info("Storage probe shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func probe(ctx context.Context, target Pinger, dst StatusSetter) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := target.Ping(ctx); err != nil {
		slog.Warn("Storage probe failed", "error", err)
		dst.SetStorageServing(false)
		return
	}
	dst.SetStorageServing(true)
}
