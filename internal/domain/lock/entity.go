package lock

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const DefaultTTL = 120 * time.Second

var (
	ErrInvalidAmount = errors.New("reserved capacity must be at least 1")
	ErrEmptySession  = errors.New("session id must not be empty")
	ErrInvalidTTL    = errors.New("ttl must be positive")
)

// Lock is a time-boxed claim on a slot's capacity, not yet a confirmed
// booking. A lock is never updated in place; each acquisition is a new row.
type Lock struct {
	id               uuid.UUID
	slotID           uuid.UUID
	sessionID        string
	reservedCapacity int32
	acquiredAt       time.Time
	expiresAt        time.Time
}

func NewLock(slotID uuid.UUID, sessionID string, reservedCapacity int32, now time.Time, ttl time.Duration) (*Lock, error) {
	if reservedCapacity < 1 {
		return nil, ErrInvalidAmount
	}
	if sessionID == "" {
		return nil, ErrEmptySession
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	return &Lock{
		id:               uuid.New(),
		slotID:           slotID,
		sessionID:        sessionID,
		reservedCapacity: reservedCapacity,
		acquiredAt:       now,
		expiresAt:        now.Add(ttl),
	}, nil
}

func ReconstructLock(id, slotID uuid.UUID, sessionID string, reservedCapacity int32, acquiredAt, expiresAt time.Time) *Lock {
	return &Lock{
		id:               id,
		slotID:           slotID,
		sessionID:        sessionID,
		reservedCapacity: reservedCapacity,
		acquiredAt:       acquiredAt,
		expiresAt:        expiresAt,
	}
}

func (l *Lock) Expired(now time.Time) bool {
	return !l.expiresAt.After(now)
}

func (l *Lock) OwnedBy(sessionID string) bool {
	return l.sessionID == sessionID
}

func (l *Lock) ID() uuid.UUID           { return l.id }
func (l *Lock) SlotID() uuid.UUID       { return l.slotID }
func (l *Lock) SessionID() string       { return l.sessionID }
func (l *Lock) ReservedCapacity() int32 { return l.reservedCapacity }
func (l *Lock) AcquiredAt() time.Time   { return l.acquiredAt }
func (l *Lock) ExpiresAt() time.Time    { return l.expiresAt }
