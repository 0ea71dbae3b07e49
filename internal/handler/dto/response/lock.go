package response

import (
	"time"

	"github.com/google/uuid"

	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"
)

type LockResponse struct {
	LockID    uuid.UUID `json:"lockId"`
	SlotID    uuid.UUID `json:"slotId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type LockStatusResponse struct {
	LockID           uuid.UUID  `json:"lockId"`
	SlotID           uuid.UUID  `json:"slotId,omitempty"`
	Valid            bool       `json:"valid"`
	SecondsRemaining int64      `json:"secondsRemaining"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
}

type ActiveLockResponse struct {
	SlotID       uuid.UUID `json:"slotId"`
	HeldCapacity int32     `json:"heldCapacity"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func FromAcquireLockResult(r *commands.AcquireLockResult) *LockResponse {
	return &LockResponse{
		LockID:    r.LockID,
		SlotID:    r.SlotID,
		ExpiresAt: r.ExpiresAt,
	}
}

func FromLockStatusView(v *queries.LockStatusView) *LockStatusResponse {
	resp := &LockStatusResponse{
		LockID:           v.LockID,
		SlotID:           v.SlotID,
		Valid:            v.Valid,
		SecondsRemaining: v.SecondsRemaining,
	}
	if !v.ExpiresAt.IsZero() {
		resp.ExpiresAt = &v.ExpiresAt
	}
	return resp
}

func FromActiveLockView(v *queries.ActiveLockView) *ActiveLockResponse {
	return &ActiveLockResponse{
		SlotID:       v.SlotID,
		HeldCapacity: v.HeldCapacity,
		ExpiresAt:    v.ExpiresAt,
	}
}
