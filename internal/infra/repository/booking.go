package repository

import (
	"context"
	"errors"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO bookings (
			id, tenant_id, service_id, slot_id, customer_id,
			adult_count, child_count, total_count, total_cents,
			status, payment_status, offer_id, lock_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())`,
		b.ID(), b.TenantID(), b.ServiceID(), b.SlotID(), b.CustomerID(),
		b.HeadCount().Adult(), b.HeadCount().Child(), b.HeadCount().Total(), b.Total().Cents(),
		string(b.Status()), string(b.PaymentStatus()), b.OfferID(), b.LockID(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var s shared.BookingSnapshot
	var status, paymentStatus string
	err := dbtx.QueryRow(ctx, `
		SELECT id, tenant_id, service_id, slot_id, customer_id,
		       adult_count, child_count, total_count, total_cents,
		       status, payment_status, invoice_id
		FROM bookings
		WHERE id = $1
		FOR UPDATE`,
		id,
	).Scan(
		&s.ID, &s.TenantID, &s.ServiceID, &s.SlotID, &s.CustomerID,
		&s.AdultCount, &s.ChildCount, &s.TotalCount, &s.TotalCents,
		&status, &paymentStatus, &s.InvoiceID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock booking row", err)
	}
	s.Status = booking.Status(status)
	s.PaymentStatus = booking.PaymentStatus(paymentStatus)
	return &s, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status booking.Status) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status booking.PaymentStatus) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE bookings SET payment_status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

// SetInvoiceID writes the invoice reference only when none exists yet; a
// false return tells the retry queue another path already issued it.
func (r *BookingRepository) SetInvoiceID(ctx context.Context, dbtx db.DBTX, id uuid.UUID, invoiceID string) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
		UPDATE bookings SET invoice_id = $2, updated_at = now()
		WHERE id = $1 AND invoice_id IS NULL`,
		id, invoiceID,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to set invoice id", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingRepository) GetInvoiceID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*string, error) {
	var invoiceID *string
	err := dbtx.QueryRow(ctx, `SELECT invoice_id FROM bookings WHERE id = $1`, id).Scan(&invoiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read invoice id", err)
	}
	return invoiceID, nil
}
