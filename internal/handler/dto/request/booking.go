package request

import (
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	SlotID     uuid.UUID  `json:"slot_id" binding:"required"`
	CustomerID uuid.UUID  `json:"customer_id" binding:"required"`
	AdultCount int32      `json:"adult_count" binding:"min=0"`
	ChildCount int32      `json:"child_count" binding:"min=0"`
	TotalCount int32      `json:"total_count" binding:"required,min=1"`
	TotalCents int64      `json:"total_cents" binding:"min=0"`
	OfferID    *uuid.UUID `json:"offer_id,omitempty"`
	LockID     *uuid.UUID `json:"lock_id,omitempty"`
}

type RecordPaymentRequest struct {
	Partial bool `json:"partial"`
}
