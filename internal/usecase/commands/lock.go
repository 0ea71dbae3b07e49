package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"booking-engine/internal/domain/lock"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"
)

var (
	ErrSlotNotFound        = errs.New("slot not found")
	ErrCapacityUnavailable = errs.New("requested capacity is not available")
	ErrLockNotFound        = errs.New("lock not found")
	ErrInvalidAmount       = errs.New("reserved capacity must be positive")
)

type AcquireLockResult struct {
	LockID    uuid.UUID
	SlotID    uuid.UUID
	ExpiresAt time.Time
}

type LockCommands interface {
	Acquire(ctx context.Context, slotID uuid.UUID, sessionID string, amount int32) (*AcquireLockResult, error)
	Release(ctx context.Context, lockID uuid.UUID, sessionID string) error
}

type lockCommands struct {
	uow shared.UnitOfWork
	clk clock.Clock
	ttl time.Duration
}

func NewLockCommands(uow shared.UnitOfWork, clk clock.Clock, ttl time.Duration) LockCommands {
	if ttl <= 0 {
		ttl = lock.DefaultTTL
	}
	return &lockCommands{uow: uow, clk: clk, ttl: ttl}
}

// Acquire reserves capacity on a slot and records a lock holding it. The
// capacity decrement and the lock insert commit atomically, so a crash
// between them can never leak held capacity.
func (c *lockCommands) Acquire(ctx context.Context, slotID uuid.UUID, sessionID string, amount int32) (*AcquireLockResult, error) {
	if amount <= 0 {
		return nil, errs.Mark(errs.New("amount must be >= 1"), ErrInvalidAmount)
	}

	var result *AcquireLockResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Slots().FindForUpdate(ctx, tx.DB(), slotID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrSlotNotFound)
			}
			return errs.Wrap(err, "failed to load slot")
		}

		reserved, err := tx.Slots().TryReserve(ctx, tx.DB(), slotID, amount)
		if err != nil {
			return errs.Wrap(err, "failed to reserve capacity")
		}
		if !reserved {
			return errs.Mark(errs.New("slot closed or capacity exhausted"), ErrCapacityUnavailable)
		}

		lk, err := lock.NewLock(slotID, sessionID, amount, c.clk.Now(), c.ttl)
		if err != nil {
			return errs.Wrap(err, "failed to build lock")
		}
		if err := tx.Locks().Create(ctx, tx.DB(), lk); err != nil {
			return errs.Wrap(err, "failed to persist lock")
		}

		result = &AcquireLockResult{
			LockID:    lk.ID(),
			SlotID:    lk.SlotID(),
			ExpiresAt: lk.ExpiresAt(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Release deletes a lock owned by the session and returns its held capacity
// to the slot. A lock that is already gone (expired and reaped, or released
// twice) yields ErrLockNotFound; callers may treat that as success.
func (c *lockCommands) Release(ctx context.Context, lockID uuid.UUID, sessionID string) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Locks().DeleteOwned(ctx, tx.DB(), lockID, sessionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrLockNotFound)
			}
			return errs.Wrap(err, "failed to delete lock")
		}

		if err := tx.Slots().Release(ctx, tx.DB(), snap.SlotID, snap.ReservedCapacity); err != nil {
			return errs.Wrap(err, "failed to release capacity")
		}
		return nil
	})
}
