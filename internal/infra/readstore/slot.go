package readstore

import (
	"context"
	"errors"

	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SlotReadStore struct {
	db db.DBTX
}

func NewSlotReadStore(dbtx db.DBTX) *SlotReadStore {
	return &SlotReadStore{db: dbtx}
}

func (r *SlotReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.SlotSnapshot, error) {
	var s shared.SlotSnapshot
	err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, service_id, shift_id, starts_at, ends_at,
		       total_capacity, remaining_capacity, available_capacity, booked_count, is_available
		FROM slots
		WHERE id = $1`,
		id,
	).Scan(
		&s.ID, &s.TenantID, &s.ServiceID, &s.ShiftID, &s.StartsAt, &s.EndsAt,
		&s.TotalCapacity, &s.RemainingCapacity, &s.AvailableCapacity, &s.BookedCount, &s.IsAvailable,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot", err)
	}
	return &s, nil
}
