package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Slot errors
	ErrSlotNotFound      = errors.New("slot not found")
	ErrSlotUnavailable   = errors.New("slot unavailable")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrCapacityViolation = errors.New("capacity invariant violation")

	// Lock errors
	ErrLockNotFound      = errors.New("lock not found")
	ErrLockExpired       = errors.New("lock expired")
	ErrLockOwnerMismatch = errors.New("lock owner mismatch")

	// Booking errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrHeadCountMismatch = errors.New("head count mismatch")
	ErrTenantDeactivated = errors.New("tenant deactivated")

	// Retry job errors
	ErrJobExhausted   = errors.New("retry job exhausted")
	ErrUnknownJobKind = errors.New("unknown job kind")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
