package request

import (
	"github.com/google/uuid"
)

type AcquireLockRequest struct {
	SlotID uuid.UUID `json:"slot_id" binding:"required"`
	Amount int32     `json:"amount" binding:"required,min=1"`
}

// ActiveLocksRequest batches the slot ids a listing page is about to render.
type ActiveLocksRequest struct {
	SlotIDs []uuid.UUID `json:"slot_ids" binding:"required,min=1,max=100"`
}
