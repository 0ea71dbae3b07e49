package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read-model views returned by the query side

type LockStatusView struct {
	LockID           uuid.UUID
	SlotID           uuid.UUID
	Valid            bool
	SecondsRemaining int64
	ExpiresAt        time.Time
}

// ActiveLockView summarizes the live holds against one slot; callers use it
// to grey out contested slots in a listing.
type ActiveLockView struct {
	SlotID       uuid.UUID
	HeldCapacity int32
	ExpiresAt    time.Time // latest expiry among the slot's active holds
}

type SlotView struct {
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

type BookingView struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	ServiceID     uuid.UUID
	SlotID        uuid.UUID
	CustomerID    uuid.UUID
	AdultCount    int32
	ChildCount    int32
	TotalCount    int32
	TotalCents    int64
	Status        string
	PaymentStatus string
	InvoiceID     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
