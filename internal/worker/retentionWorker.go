// Package worker runs the recurring retention sweep in the background.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CleanupService is the slice of the disc service the sweep needs.
type CleanupService interface {
	Cleanup(context.Context) (int64, error)
}

// RetentionWorker triggers the retention policy on a fixed interval.
type RetentionWorker struct {
	interval time.Duration
	logger   *zap.Logger
	service  CleanupService
}

func NewRetentionWorker(interval time.Duration, logger *zap.Logger, service CleanupService) *RetentionWorker {
	return &RetentionWorker{
		interval: interval,
		logger:   logger,
		service:  service,
	}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled. A failed sweep is logged and retried on the next tick.
func (w *RetentionWorker) Run(ctx context.Context) {
	w.logger.Info("retention sweep started", zap.Duration("interval", w.interval))

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("retention sweep stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *RetentionWorker) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	affected, err := w.service.Cleanup(sweepCtx)
	if err != nil {
		w.logger.Error("retention sweep failed", zap.Error(err))
		return
	}

	if affected > 0 {
		w.logger.Info("retention sweep done", zap.Int64("affected", affected))
	}
}
