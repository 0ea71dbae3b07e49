package readstore

import (
	"context"
	"errors"

	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingViewColumns = `
	id, tenant_id, service_id, slot_id, customer_id,
	adult_count, child_count, total_count, total_cents,
	status, payment_status, invoice_id, created_at, updated_at`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, `SELECT`+bookingViewColumns+` FROM bookings WHERE id = $1`, id)
	v, err := scanBookingView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return v, nil
}

func (r *BookingReadStore) FindBySlotID(ctx context.Context, slotID uuid.UUID) ([]*queries.BookingView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+bookingViewColumns+`
		FROM bookings
		WHERE slot_id = $1
		ORDER BY created_at`,
		slotID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings for slot", err)
	}
	defer rows.Close()

	var views []*queries.BookingView
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}
	return views, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var v queries.BookingView
	err := row.Scan(
		&v.ID, &v.TenantID, &v.ServiceID, &v.SlotID, &v.CustomerID,
		&v.AdultCount, &v.ChildCount, &v.TotalCount, &v.TotalCents,
		&v.Status, &v.PaymentStatus, &v.InvoiceID, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
