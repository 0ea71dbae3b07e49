package response

import (
	"time"

	"github.com/google/uuid"

	"booking-engine/internal/usecase/queries"
)

type BookingResponse struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenantId"`
	ServiceID     uuid.UUID `json:"serviceId"`
	SlotID        uuid.UUID `json:"slotId"`
	CustomerID    uuid.UUID `json:"customerId"`
	AdultCount    int32     `json:"adultCount"`
	ChildCount    int32     `json:"childCount"`
	TotalCount    int32     `json:"totalCount"`
	TotalCents    int64     `json:"totalCents"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	InvoiceID     *string   `json:"invoiceId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:            v.ID,
		TenantID:      v.TenantID,
		ServiceID:     v.ServiceID,
		SlotID:        v.SlotID,
		CustomerID:    v.CustomerID,
		AdultCount:    v.AdultCount,
		ChildCount:    v.ChildCount,
		TotalCount:    v.TotalCount,
		TotalCents:    v.TotalCents,
		Status:        v.Status,
		PaymentStatus: v.PaymentStatus,
		InvoiceID:     v.InvoiceID,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}
