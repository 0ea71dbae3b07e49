//go:build unit || e2e

package builder

import (
	"time"

	domslot "booking-engine/internal/domain/slot"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type SlotBuilder struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	ServiceID         uuid.UUID
	ShiftID           uuid.UUID
	StartsAt          time.Time
	EndsAt            time.Time
	TotalCapacity     int32
	RemainingCapacity int32
	AvailableCapacity int32
	BookedCount       int32
	IsAvailable       bool
}

func NewSlotBuilder() *SlotBuilder {
	starts := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	return &SlotBuilder{
		ID:                uuid.New(),
		TenantID:          uuid.New(),
		ServiceID:         uuid.New(),
		ShiftID:           uuid.New(),
		StartsAt:          starts,
		EndsAt:            starts.Add(2 * time.Hour),
		TotalCapacity:     10,
		RemainingCapacity: 10,
		AvailableCapacity: 10,
		BookedCount:       0,
		IsAvailable:       true,
	}
}

func (b *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(b)
	return b
}

func (b *SlotBuilder) BuildDomain() (*domslot.Slot, error) {
	return domslot.NewSlot(b.TenantID, b.ServiceID, b.ShiftID, b.StartsAt, b.EndsAt, b.TotalCapacity)
}

func (b *SlotBuilder) Reconstruct() *domslot.Slot {
	return domslot.ReconstructSlot(
		b.ID, b.TenantID, b.ServiceID, b.ShiftID,
		b.StartsAt, b.EndsAt,
		b.TotalCapacity, b.RemainingCapacity, b.AvailableCapacity, b.BookedCount,
		b.IsAvailable,
	)
}

func (b *SlotBuilder) Snapshot() *shared.SlotSnapshot {
	return &shared.SlotSnapshot{
		ID:                b.ID,
		TenantID:          b.TenantID,
		ServiceID:         b.ServiceID,
		ShiftID:           b.ShiftID,
		StartsAt:          b.StartsAt,
		EndsAt:            b.EndsAt,
		TotalCapacity:     b.TotalCapacity,
		RemainingCapacity: b.RemainingCapacity,
		AvailableCapacity: b.AvailableCapacity,
		BookedCount:       b.BookedCount,
		IsAvailable:       b.IsAvailable,
	}
}
