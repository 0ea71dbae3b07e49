package repository

import (
	"context"
	"errors"
	"time"

	"booking-engine/internal/domain/lock"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LockRepository struct{}

func NewLockRepository() *LockRepository {
	return &LockRepository{}
}

func (r *LockRepository) Create(ctx context.Context, dbtx db.DBTX, l *lock.Lock) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO slot_locks (id, slot_id, session_id, reserved_capacity, acquired_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID(), l.SlotID(), l.SessionID(), l.ReservedCapacity(), l.AcquiredAt(), l.ExpiresAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create lock", err)
	}
	return nil
}

func (r *LockRepository) FindForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.LockSnapshot, error) {
	var s shared.LockSnapshot
	err := dbtx.QueryRow(ctx, `
		SELECT id, slot_id, session_id, reserved_capacity, acquired_at, expires_at
		FROM slot_locks
		WHERE id = $1
		FOR UPDATE`,
		id,
	).Scan(&s.ID, &s.SlotID, &s.SessionID, &s.ReservedCapacity, &s.AcquiredAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("lock not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock hold row", err)
	}
	return &s, nil
}

func (r *LockRepository) DeleteOwned(ctx context.Context, dbtx db.DBTX, id uuid.UUID, sessionID string) (*shared.LockSnapshot, error) {
	var s shared.LockSnapshot
	err := dbtx.QueryRow(ctx, `
		DELETE FROM slot_locks
		WHERE id = $1 AND session_id = $2
		RETURNING id, slot_id, session_id, reserved_capacity, acquired_at, expires_at`,
		id, sessionID,
	).Scan(&s.ID, &s.SlotID, &s.SessionID, &s.ReservedCapacity, &s.AcquiredAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("lock not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to delete lock", err)
	}
	return &s, nil
}

func (r *LockRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error) {
	tag, err := dbtx.Exec(ctx, `DELETE FROM slot_locks WHERE id = $1`, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete lock", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteExpired reaps every hold past its expiry in one statement and folds
// the reclaimed capacity per slot, so the caller issues one release per slot
// instead of one per lock.
func (r *LockRepository) DeleteExpired(ctx context.Context, dbtx db.DBTX, now time.Time) ([]shared.SlotCapacityRelease, error) {
	rows, err := dbtx.Query(ctx, `
		DELETE FROM slot_locks
		WHERE expires_at <= $1
		RETURNING slot_id, reserved_capacity`,
		now,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to delete expired locks", err)
	}
	defer rows.Close()

	perSlot := make(map[uuid.UUID]int32)
	var order []uuid.UUID
	for rows.Next() {
		var slotID uuid.UUID
		var amount int32
		if err := rows.Scan(&slotID, &amount); err != nil {
			return nil, infra.WrapRepoErr("failed to scan expired lock", err)
		}
		if _, seen := perSlot[slotID]; !seen {
			order = append(order, slotID)
		}
		perSlot[slotID] += amount
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read expired locks", err)
	}

	releases := make([]shared.SlotCapacityRelease, 0, len(order))
	for _, slotID := range order {
		releases = append(releases, shared.SlotCapacityRelease{SlotID: slotID, Amount: perSlot[slotID]})
	}
	return releases, nil
}
