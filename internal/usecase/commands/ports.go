package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingConfirmedEvent is the fire-and-forget notification emitted after a
// booking commits. Delivery failures are logged, never propagated.
type BookingConfirmedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	ServiceID  uuid.UUID `json:"service_id"`
	SlotID     uuid.UUID `json:"slot_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	TotalCount int32     `json:"total_count"`
	TotalCents int64     `json:"total_cents"`
	BookedAt   time.Time `json:"booked_at"`
}

type BookingNotifier interface {
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error
}
