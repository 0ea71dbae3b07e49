package repository

import (
	"context"
	"errors"

	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SlotRepository struct{}

func NewSlotRepository() *SlotRepository {
	return &SlotRepository{}
}

const slotForUpdateQuery = `
SELECT id, tenant_id, service_id, shift_id, starts_at, ends_at,
       total_capacity, remaining_capacity, available_capacity, booked_count, is_available
FROM slots
WHERE id = $1
FOR UPDATE`

func (r *SlotRepository) FindForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.SlotSnapshot, error) {
	var s shared.SlotSnapshot
	err := dbtx.QueryRow(ctx, slotForUpdateQuery, id).Scan(
		&s.ID, &s.TenantID, &s.ServiceID, &s.ShiftID, &s.StartsAt, &s.EndsAt,
		&s.TotalCapacity, &s.RemainingCapacity, &s.AvailableCapacity, &s.BookedCount, &s.IsAvailable,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock slot row", err)
	}
	return &s, nil
}

// TryReserve is the single soft-decrement primitive: the conditional UPDATE
// both checks and decrements under the row's exclusive access, so two
// concurrent callers can never both take the last unit.
func (r *SlotRepository) TryReserve(ctx context.Context, dbtx db.DBTX, id uuid.UUID, amount int32) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
		UPDATE slots
		SET available_capacity = available_capacity - $2
		WHERE id = $1 AND is_available AND available_capacity >= $2`,
		id, amount,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to reserve slot capacity", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Release clamps at total_capacity so a stray double release can never push
// capacity above the ceiling.
func (r *SlotRepository) Release(ctx context.Context, dbtx db.DBTX, id uuid.UUID, amount int32) error {
	_, err := dbtx.Exec(ctx, `
		UPDATE slots
		SET available_capacity = LEAST(available_capacity + $2, total_capacity)
		WHERE id = $1`,
		id, amount,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to release slot capacity", err)
	}
	return nil
}

func (r *SlotRepository) Confirm(ctx context.Context, dbtx db.DBTX, id uuid.UUID, amount int32) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
		UPDATE slots
		SET available_capacity = available_capacity - $2,
		    remaining_capacity = remaining_capacity - $2,
		    booked_count       = booked_count + $2
		WHERE id = $1 AND is_available
		  AND available_capacity >= $2
		  AND remaining_capacity >= $2`,
		id, amount,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to confirm slot capacity", err)
	}
	return tag.RowsAffected() == 1, nil
}
