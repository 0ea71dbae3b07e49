package queries

import (
	"context"

	"github.com/google/uuid"

	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/errs"
)

type SlotQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
}

type slotQueries struct {
	slots SlotReader
}

func NewSlotQueries(slots SlotReader) SlotQueries {
	return &slotQueries{slots: slots}
}

func (q *slotQueries) GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error) {
	snap, err := q.slots.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrSlotNotFound)
		}
		return nil, errs.Wrap(err, "failed to load slot")
	}
	return &SlotView{
		ID:                snap.ID,
		TenantID:          snap.TenantID,
		ServiceID:         snap.ServiceID,
		ShiftID:           snap.ShiftID,
		StartsAt:          snap.StartsAt,
		EndsAt:            snap.EndsAt,
		TotalCapacity:     snap.TotalCapacity,
		RemainingCapacity: snap.RemainingCapacity,
		AvailableCapacity: snap.AvailableCapacity,
		BookedCount:       snap.BookedCount,
		IsAvailable:       snap.IsAvailable,
	}, nil
}
