package worker

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"
)

// LockReaper periodically deletes expired reservation locks and returns
// their held capacity to the owning slots. Delete and release always share
// one transaction so a crash mid-sweep cannot strand capacity.
type LockReaper struct {
	uow      shared.UnitOfWork
	clk      clock.Clock
	interval time.Duration
}

func NewLockReaper(uow shared.UnitOfWork, clk clock.Clock, interval time.Duration) *LockReaper {
	return &LockReaper{uow: uow, clk: clk, interval: interval}
}

// Run sweeps immediately, then on every tick until the context is canceled.
// A failed sweep is logged and retried on the next tick.
func (r *LockReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("lock reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *LockReaper) sweep(ctx context.Context) {
	reclaimed, err := r.SweepOnce(ctx)
	if err != nil {
		slog.Error("lock reap sweep failed", "error", err.Error())
		return
	}
	if reclaimed > 0 {
		slog.Info("reaped expired locks", "reclaimed_capacity", reclaimed)
	}
}

// SweepOnce deletes every lock past expiry and releases the reclaimed
// capacity, grouped per slot. Returns the total capacity returned.
func (r *LockReaper) SweepOnce(ctx context.Context) (int32, error) {
	var total int32
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		releases, err := tx.Locks().DeleteExpired(ctx, tx.DB(), r.clk.Now())
		if err != nil {
			return errs.Wrap(err, "failed to delete expired locks")
		}
		for _, rel := range releases {
			if err := tx.Slots().Release(ctx, tx.DB(), rel.SlotID, rel.Amount); err != nil {
				return errs.Wrap(err, "failed to release reaped capacity")
			}
			total += rel.Amount
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
