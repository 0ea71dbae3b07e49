package shared

import (
	"context"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/lock"
	"booking-engine/internal/domain/retryjob"
	"booking-engine/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Slots() SlotRepository
	Locks() LockRepository
	Bookings() BookingRepository
	RetryJobs() RetryJobRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	TenantByID(ctx context.Context, id uuid.UUID) (*TenantSnapshot, error)
	OfferByID(ctx context.Context, id uuid.UUID) (*OfferSnapshot, error)
	SlotByID(ctx context.Context, id uuid.UUID) (*SlotSnapshot, error)
	LockByID(ctx context.Context, id uuid.UUID) (*LockSnapshot, error)
}

// Minimal snapshots for command-side reads (write side never depends on the
// read-model view types)

type SlotSnapshot struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	ServiceID         uuid.UUID
	ShiftID           uuid.UUID
	StartsAt          time.Time
	EndsAt            time.Time
	TotalCapacity     int32
	RemainingCapacity int32
	AvailableCapacity int32
	BookedCount       int32
	IsAvailable       bool
}

type LockSnapshot struct {
	ID               uuid.UUID
	SlotID           uuid.UUID
	SessionID        string
	ReservedCapacity int32
	AcquiredAt       time.Time
	ExpiresAt        time.Time
}

type TenantSnapshot struct {
	ID       uuid.UUID
	IsActive bool
}

type OfferSnapshot struct {
	ID        uuid.UUID
	ServiceID uuid.UUID
	IsActive  bool
}

type BookingSnapshot struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	ServiceID     uuid.UUID
	SlotID        uuid.UUID
	CustomerID    uuid.UUID
	AdultCount    int32
	ChildCount    int32
	TotalCount    int32
	TotalCents    int64
	Status        booking.Status
	PaymentStatus booking.PaymentStatus
	InvoiceID     *string
}

// SlotCapacityRelease is one slot's worth of reclaimed hold capacity,
// batched per slot by the reaper.
type SlotCapacityRelease struct {
	SlotID uuid.UUID
	Amount int32
}

type SlotRepository interface {
	// FindForUpdate reads the slot row under exclusive row access. All
	// capacity decisions inside a transaction serialize through this.
	FindForUpdate(ctx context.Context, db db.DBTX, id uuid.UUID) (*SlotSnapshot, error)
	// TryReserve atomically decrements available capacity if and only if
	// the amount is available. Returns false with no mutation otherwise.
	TryReserve(ctx context.Context, db db.DBTX, id uuid.UUID, amount int32) (bool, error)
	// Release returns held capacity, clamped at total_capacity.
	Release(ctx context.Context, db db.DBTX, id uuid.UUID, amount int32) error
	// Confirm performs the hard decrement at booking commit. Returns false
	// if capacity no longer covers the amount.
	Confirm(ctx context.Context, db db.DBTX, id uuid.UUID, amount int32) (bool, error)
}

type LockRepository interface {
	Create(ctx context.Context, db db.DBTX, l *lock.Lock) error
	FindForUpdate(ctx context.Context, db db.DBTX, id uuid.UUID) (*LockSnapshot, error)
	// DeleteOwned deletes the lock only when the session matches, returning
	// the deleted row so the caller can release its capacity.
	DeleteOwned(ctx context.Context, db db.DBTX, id uuid.UUID, sessionID string) (*LockSnapshot, error)
	Delete(ctx context.Context, db db.DBTX, id uuid.UUID) (bool, error)
	// DeleteExpired removes every lock past its expiry and reports the
	// reclaimed capacity grouped per slot.
	DeleteExpired(ctx context.Context, db db.DBTX, now time.Time) ([]SlotCapacityRelease, error)
}

type BookingRepository interface {
	Create(ctx context.Context, db db.DBTX, b *booking.Booking) error
	FindForUpdate(ctx context.Context, db db.DBTX, id uuid.UUID) (*BookingSnapshot, error)
	UpdateStatus(ctx context.Context, db db.DBTX, id uuid.UUID, status booking.Status) error
	UpdatePaymentStatus(ctx context.Context, db db.DBTX, id uuid.UUID, status booking.PaymentStatus) error
	// SetInvoiceID records the issued invoice; returns false when an
	// invoice id is already present (idempotency guard).
	SetInvoiceID(ctx context.Context, db db.DBTX, id uuid.UUID, invoiceID string) (bool, error)
	GetInvoiceID(ctx context.Context, db db.DBTX, id uuid.UUID) (*string, error)
}

type RetryJobRepository interface {
	Enqueue(ctx context.Context, db db.DBTX, job *retryjob.Job) error
	// ClaimDueBatch atomically marks up to limit due jobs processing and
	// returns them. A pending job is due when next_run_at has passed; a
	// processing job is re-claimable once started_at is older than
	// staleBefore (crash recovery).
	ClaimDueBatch(ctx context.Context, db db.DBTX, now time.Time, staleBefore time.Time, limit int32) ([]*retryjob.Job, error)
	Complete(ctx context.Context, db db.DBTX, id uuid.UUID, now time.Time) error
	Fail(ctx context.Context, db db.DBTX, id uuid.UUID, now time.Time) error
	Reschedule(ctx context.Context, db db.DBTX, id uuid.UUID, attempts int32, nextRunAt time.Time) error
}
