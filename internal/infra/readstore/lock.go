package readstore

import (
	"context"
	"errors"

	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/usecase/queries"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LockReadStore struct {
	db db.DBTX
}

func NewLockReadStore(dbtx db.DBTX) *LockReadStore {
	return &LockReadStore{db: dbtx}
}

func (r *LockReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.LockSnapshot, error) {
	var s shared.LockSnapshot
	err := r.db.QueryRow(ctx, `
		SELECT id, slot_id, session_id, reserved_capacity, acquired_at, expires_at
		FROM slot_locks
		WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.SlotID, &s.SessionID, &s.ReservedCapacity, &s.AcquiredAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("lock not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find lock", err)
	}
	return &s, nil
}

// ActiveForSlots aggregates unexpired holds per slot for the given slot ids.
func (r *LockReadStore) ActiveForSlots(ctx context.Context, slotIDs []uuid.UUID) ([]*queries.ActiveLockView, error) {
	if len(slotIDs) == 0 {
		return []*queries.ActiveLockView{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT slot_id, SUM(reserved_capacity)::int, MAX(expires_at)
		FROM slot_locks
		WHERE slot_id = ANY($1) AND expires_at > now()
		GROUP BY slot_id`,
		slotIDs,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query active locks", err)
	}
	defer rows.Close()

	var views []*queries.ActiveLockView
	for rows.Next() {
		var v queries.ActiveLockView
		if err := rows.Scan(&v.SlotID, &v.HeldCapacity, &v.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan active lock row", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read active lock rows", err)
	}
	return views, nil
}
