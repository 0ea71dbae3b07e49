package readstore

import (
	"context"
	"errors"

	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TenantReadStore serves the tenant/service directory lookups the booking
// coordinator validates against. The directory itself is owned elsewhere;
// these are read-only views.
type TenantReadStore struct {
	db db.DBTX
}

func NewTenantReadStore(dbtx db.DBTX) *TenantReadStore {
	return &TenantReadStore{db: dbtx}
}

func (r *TenantReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.TenantSnapshot, error) {
	var s shared.TenantSnapshot
	err := r.db.QueryRow(ctx, `SELECT id, is_active FROM tenants WHERE id = $1`, id).
		Scan(&s.ID, &s.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("tenant not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find tenant", err)
	}
	return &s, nil
}

func (r *TenantReadStore) FindOfferByID(ctx context.Context, id uuid.UUID) (*shared.OfferSnapshot, error) {
	var s shared.OfferSnapshot
	err := r.db.QueryRow(ctx, `SELECT id, service_id, is_active FROM offers WHERE id = $1`, id).
		Scan(&s.ID, &s.ServiceID, &s.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("offer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find offer", err)
	}
	return &s, nil
}
