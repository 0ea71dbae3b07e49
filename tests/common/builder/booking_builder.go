//go:build unit || e2e

package builder

import (
	"time"

	dombooking "booking-engine/internal/domain/booking"
	"booking-engine/internal/usecase/queries"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	ServiceID     uuid.UUID
	SlotID        uuid.UUID
	CustomerID    uuid.UUID
	AdultCount    int32
	ChildCount    int32
	TotalCount    int32
	TotalCents    int64
	Status        dombooking.Status
	PaymentStatus dombooking.PaymentStatus
	OfferID       *uuid.UUID
	LockID        *uuid.UUID
	InvoiceID     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		ServiceID:     uuid.New(),
		SlotID:        uuid.New(),
		CustomerID:    uuid.New(),
		AdultCount:    2,
		ChildCount:    1,
		TotalCount:    3,
		TotalCents:    15000,
		Status:        dombooking.StatusConfirmed,
		PaymentStatus: dombooking.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	headCount, err := dombooking.NewHeadCount(b.AdultCount, b.ChildCount, b.TotalCount)
	if err != nil {
		return nil, err
	}
	total, err := dombooking.NewMoney(b.TotalCents)
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(b.TenantID, b.ServiceID, b.SlotID, b.CustomerID, headCount, total, b.OfferID, b.LockID), nil
}

func (b *BookingBuilder) Reconstruct() *dombooking.Booking {
	headCount, err := dombooking.NewHeadCount(b.AdultCount, b.ChildCount, b.TotalCount)
	if err != nil {
		panic(err)
	}
	total, err := dombooking.NewMoney(b.TotalCents)
	if err != nil {
		panic(err)
	}
	return dombooking.ReconstructBooking(
		b.ID, b.TenantID, b.ServiceID, b.SlotID, b.CustomerID,
		headCount, total, b.Status, b.PaymentStatus,
		b.OfferID, b.LockID, b.InvoiceID,
		b.CreatedAt, b.UpdatedAt,
	)
}

func (b *BookingBuilder) Snapshot() *shared.BookingSnapshot {
	return &shared.BookingSnapshot{
		ID:            b.ID,
		TenantID:      b.TenantID,
		ServiceID:     b.ServiceID,
		SlotID:        b.SlotID,
		CustomerID:    b.CustomerID,
		AdultCount:    b.AdultCount,
		ChildCount:    b.ChildCount,
		TotalCount:    b.TotalCount,
		TotalCents:    b.TotalCents,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		InvoiceID:     b.InvoiceID,
	}
}

func (b *BookingBuilder) View() *queries.BookingView {
	return &queries.BookingView{
		ID:            b.ID,
		TenantID:      b.TenantID,
		ServiceID:     b.ServiceID,
		SlotID:        b.SlotID,
		CustomerID:    b.CustomerID,
		AdultCount:    b.AdultCount,
		ChildCount:    b.ChildCount,
		TotalCount:    b.TotalCount,
		TotalCents:    b.TotalCents,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		InvoiceID:     b.InvoiceID,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
