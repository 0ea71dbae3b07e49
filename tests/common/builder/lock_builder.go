//go:build unit || e2e

package builder

import (
	"time"

	domlock "booking-engine/internal/domain/lock"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type LockBuilder struct {
	ID               uuid.UUID
	SlotID           uuid.UUID
	SessionID        string
	ReservedCapacity int32
	AcquiredAt       time.Time
	TTL              time.Duration
}

func NewLockBuilder() *LockBuilder {
	return &LockBuilder{
		ID:               uuid.New(),
		SlotID:           uuid.New(),
		SessionID:        "anon:" + uuid.NewString(),
		ReservedCapacity: 2,
		AcquiredAt:       time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
		TTL:              domlock.DefaultTTL,
	}
}

func (b *LockBuilder) With(mutate func(*LockBuilder)) *LockBuilder {
	mutate(b)
	return b
}

func (b *LockBuilder) BuildDomain() (*domlock.Lock, error) {
	return domlock.NewLock(b.SlotID, b.SessionID, b.ReservedCapacity, b.AcquiredAt, b.TTL)
}

func (b *LockBuilder) Reconstruct() *domlock.Lock {
	return domlock.ReconstructLock(b.ID, b.SlotID, b.SessionID, b.ReservedCapacity, b.AcquiredAt, b.AcquiredAt.Add(b.TTL))
}

func (b *LockBuilder) Snapshot() *shared.LockSnapshot {
	return &shared.LockSnapshot{
		ID:               b.ID,
		SlotID:           b.SlotID,
		SessionID:        b.SessionID,
		ReservedCapacity: b.ReservedCapacity,
		AcquiredAt:       b.AcquiredAt,
		ExpiresAt:        b.AcquiredAt.Add(b.TTL),
	}
}
