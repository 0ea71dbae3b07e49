package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCapacity    = errors.New("capacity must be positive")
	ErrInvalidAmount      = errors.New("amount must be at least 1")
	ErrNotAvailable       = errors.New("slot is not available")
	ErrCapacityExhausted  = errors.New("not enough available capacity")
	ErrInvariantViolation = errors.New("slot capacity invariant violated")
)

// Slot is the capacity-bearing record for a bookable time window.
// availableCapacity is the soft counter moved by holds; remainingCapacity is
// the hard counter moved only when a booking is confirmed.
type Slot struct {
	id                uuid.UUID
	tenantID          uuid.UUID
	serviceID         uuid.UUID
	shiftID           uuid.UUID
	startsAt          time.Time
	endsAt            time.Time
	startsAtUTC       time.Time
	endsAtUTC         time.Time
	totalCapacity     int32
	remainingCapacity int32
	availableCapacity int32
	bookedCount       int32
	isAvailable       bool
}

func NewSlot(
	tenantID, serviceID, shiftID uuid.UUID,
	startsAt, endsAt time.Time,
	totalCapacity int32,
) (*Slot, error) {
	if totalCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if !startsAt.Before(endsAt) {
		return nil, errors.New("slot start must be before end")
	}

	return &Slot{
		id:                uuid.New(),
		tenantID:          tenantID,
		serviceID:         serviceID,
		shiftID:           shiftID,
		startsAt:          startsAt,
		endsAt:            endsAt,
		startsAtUTC:       startsAt.UTC(),
		endsAtUTC:         endsAt.UTC(),
		totalCapacity:     totalCapacity,
		remainingCapacity: totalCapacity,
		availableCapacity: totalCapacity,
		bookedCount:       0,
		isAvailable:       true,
	}, nil
}

func ReconstructSlot(
	id, tenantID, serviceID, shiftID uuid.UUID,
	startsAt, endsAt time.Time,
	totalCapacity, remainingCapacity, availableCapacity, bookedCount int32,
	isAvailable bool,
) *Slot {
	return &Slot{
		id:                id,
		tenantID:          tenantID,
		serviceID:         serviceID,
		shiftID:           shiftID,
		startsAt:          startsAt,
		endsAt:            endsAt,
		startsAtUTC:       startsAt.UTC(),
		endsAtUTC:         endsAt.UTC(),
		totalCapacity:     totalCapacity,
		remainingCapacity: remainingCapacity,
		availableCapacity: availableCapacity,
		bookedCount:       bookedCount,
		isAvailable:       isAvailable,
	}
}

// CanReserve reports whether a hold of the given amount could be granted now.
func (s *Slot) CanReserve(amount int32) bool {
	return s.isAvailable && amount >= 1 && s.availableCapacity >= amount
}

// Reserve soft-decrements available capacity for a new hold.
func (s *Slot) Reserve(amount int32) error {
	if amount < 1 {
		return ErrInvalidAmount
	}
	if !s.isAvailable {
		return ErrNotAvailable
	}
	if s.availableCapacity < amount {
		return ErrCapacityExhausted
	}
	s.availableCapacity -= amount
	return s.checkInvariants()
}

// Release returns held capacity to the pool. Clamped at totalCapacity so a
// double release elsewhere can never push capacity above the ceiling.
func (s *Slot) Release(amount int32) error {
	if amount < 1 {
		return ErrInvalidAmount
	}
	s.availableCapacity += amount
	if s.availableCapacity > s.totalCapacity {
		s.availableCapacity = s.totalCapacity
	}
	return s.checkInvariants()
}

// Confirm hard-decrements capacity at booking commit. The caller must have
// already moved the corresponding hold back into availableCapacity (or, for a
// direct booking, verified availableCapacity covers the amount).
func (s *Slot) Confirm(amount int32) error {
	if amount < 1 {
		return ErrInvalidAmount
	}
	if !s.isAvailable {
		return ErrNotAvailable
	}
	if s.availableCapacity < amount || s.remainingCapacity < amount {
		return ErrCapacityExhausted
	}
	s.availableCapacity -= amount
	s.remainingCapacity -= amount
	s.bookedCount += amount
	return s.checkInvariants()
}

func (s *Slot) checkInvariants() error {
	if s.bookedCount < 0 ||
		s.remainingCapacity < 0 ||
		s.availableCapacity < 0 ||
		s.remainingCapacity > s.totalCapacity ||
		s.availableCapacity > s.totalCapacity {
		return ErrInvariantViolation
	}
	return nil
}

func (s *Slot) ID() uuid.UUID            { return s.id }
func (s *Slot) TenantID() uuid.UUID      { return s.tenantID }
func (s *Slot) ServiceID() uuid.UUID     { return s.serviceID }
func (s *Slot) ShiftID() uuid.UUID       { return s.shiftID }
func (s *Slot) StartsAt() time.Time      { return s.startsAt }
func (s *Slot) EndsAt() time.Time        { return s.endsAt }
func (s *Slot) StartsAtUTC() time.Time   { return s.startsAtUTC }
func (s *Slot) EndsAtUTC() time.Time     { return s.endsAtUTC }
func (s *Slot) TotalCapacity() int32     { return s.totalCapacity }
func (s *Slot) RemainingCapacity() int32 { return s.remainingCapacity }
func (s *Slot) AvailableCapacity() int32 { return s.availableCapacity }
func (s *Slot) BookedCount() int32       { return s.bookedCount }
func (s *Slot) IsAvailable() bool        { return s.isAvailable }
