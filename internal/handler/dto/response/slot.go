package response

import (
	"time"

	"github.com/google/uuid"

	"booking-engine/internal/usecase/queries"
)

type SlotResponse struct {
	ID                uuid.UUID `json:"id"`
	TenantID          uuid.UUID `json:"tenantId"`
	ServiceID         uuid.UUID `json:"serviceId"`
	ShiftID           uuid.UUID `json:"shiftId"`
	StartsAt          time.Time `json:"startsAt"`
	EndsAt            time.Time `json:"endsAt"`
	TotalCapacity     int32     `json:"totalCapacity"`
	AvailableCapacity int32     `json:"availableCapacity"`
	BookedCount       int32     `json:"bookedCount"`
	IsAvailable       bool      `json:"isAvailable"`
}

func FromSlotView(v *queries.SlotView) *SlotResponse {
	return &SlotResponse{
		ID:                v.ID,
		TenantID:          v.TenantID,
		ServiceID:         v.ServiceID,
		ShiftID:           v.ShiftID,
		StartsAt:          v.StartsAt,
		EndsAt:            v.EndsAt,
		TotalCapacity:     v.TotalCapacity,
		AvailableCapacity: v.AvailableCapacity,
		BookedCount:       v.BookedCount,
		IsAvailable:       v.IsAvailable,
	}
}
