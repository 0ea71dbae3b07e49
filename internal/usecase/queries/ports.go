package queries

import (
	"context"

	"github.com/google/uuid"

	"booking-engine/internal/usecase/shared"
)

type LockReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*shared.LockSnapshot, error)
	ActiveForSlots(ctx context.Context, slotIDs []uuid.UUID) ([]*ActiveLockView, error)
}

type SlotReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*shared.SlotSnapshot, error)
}

type BookingReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindBySlotID(ctx context.Context, slotID uuid.UUID) ([]*BookingView, error)
}
