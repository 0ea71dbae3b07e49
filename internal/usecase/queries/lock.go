package queries

import (
	"context"

	"github.com/google/uuid"

	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
)

type LockQueries interface {
	// Status reports whether the lock is currently usable by the session and
	// how long it has left. A missing, expired, or foreign lock is reported
	// as invalid rather than as an error; callers poll this during checkout.
	Status(ctx context.Context, lockID uuid.UUID, sessionID string) (*LockStatusView, error)
	// ActiveForSlots aggregates live holds per slot for listing pages.
	ActiveForSlots(ctx context.Context, slotIDs []uuid.UUID) ([]*ActiveLockView, error)
}

type lockQueries struct {
	locks LockReader
	clk   clock.Clock
}

func NewLockQueries(locks LockReader, clk clock.Clock) LockQueries {
	return &lockQueries{locks: locks, clk: clk}
}

func (q *lockQueries) Status(ctx context.Context, lockID uuid.UUID, sessionID string) (*LockStatusView, error) {
	snap, err := q.locks.FindByID(ctx, lockID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &LockStatusView{LockID: lockID, Valid: false}, nil
		}
		return nil, errs.Wrap(err, "failed to load lock")
	}

	now := q.clk.Now()
	valid := snap.SessionID == sessionID && now.Before(snap.ExpiresAt)

	view := &LockStatusView{
		LockID:    snap.ID,
		SlotID:    snap.SlotID,
		Valid:     valid,
		ExpiresAt: snap.ExpiresAt,
	}
	if valid {
		view.SecondsRemaining = clock.SecondsUntil(q.clk, snap.ExpiresAt)
	}
	return view, nil
}

func (q *lockQueries) ActiveForSlots(ctx context.Context, slotIDs []uuid.UUID) ([]*ActiveLockView, error) {
	if len(slotIDs) == 0 {
		return []*ActiveLockView{}, nil
	}
	views, err := q.locks.ActiveForSlots(ctx, slotIDs)
	if err != nil {
		return nil, errs.Wrap(err, "failed to aggregate active locks")
	}
	return views, nil
}
