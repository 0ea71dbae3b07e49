package queries

import (
	"context"

	"github.com/google/uuid"

	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/errs"
)

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*BookingView, error)
}

type bookingQueries struct {
	bookings BookingReader
}

func NewBookingQueries(bookings BookingReader) BookingQueries {
	return &bookingQueries{bookings: bookings}
}

func (q *bookingQueries) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Wrap(err, "failed to load booking")
	}
	return view, nil
}

func (q *bookingQueries) ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*BookingView, error) {
	views, err := q.bookings.FindBySlotID(ctx, slotID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list bookings")
	}
	return views, nil
}
