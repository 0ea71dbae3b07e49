//go:build unit

package worker_test

import (
	"context"
	"sync"
	"time"

	"booking-engine/internal/domain/booking"
	domlock "booking-engine/internal/domain/lock"
	"booking-engine/internal/domain/retryjob"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory stand-ins for the transactional layer. Every mutation is
// recorded under a mutex so tests can assert after concurrent sweeps.

type fakeUoW struct {
	tx *fakeTx
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{tx: newFakeTx()}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads { return nil }

type fakeTx struct {
	slots    *fakeSlotRepo
	locks    *fakeLockRepo
	bookings *fakeBookingRepo
	jobs     *fakeRetryJobRepo
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		slots:    &fakeSlotRepo{},
		locks:    &fakeLockRepo{},
		bookings: &fakeBookingRepo{invoices: map[uuid.UUID]string{}},
		jobs:     &fakeRetryJobRepo{},
	}
}

func (t *fakeTx) Slots() shared.SlotRepository        { return t.slots }
func (t *fakeTx) Locks() shared.LockRepository        { return t.locks }
func (t *fakeTx) Bookings() shared.BookingRepository  { return t.bookings }
func (t *fakeTx) RetryJobs() shared.RetryJobRepository { return t.jobs }
func (t *fakeTx) Reads() shared.CommandReads          { return nil }
func (t *fakeTx) DB() db.DBTX                         { return nil }

type releaseCall struct {
	slotID uuid.UUID
	amount int32
}

type fakeSlotRepo struct {
	mu         sync.Mutex
	releases   []releaseCall
	releaseErr error
}

func (r *fakeSlotRepo) FindForUpdate(context.Context, db.DBTX, uuid.UUID) (*shared.SlotSnapshot, error) {
	panic("not used")
}

func (r *fakeSlotRepo) TryReserve(context.Context, db.DBTX, uuid.UUID, int32) (bool, error) {
	panic("not used")
}

func (r *fakeSlotRepo) Release(_ context.Context, _ db.DBTX, id uuid.UUID, amount int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.releaseErr != nil {
		return r.releaseErr
	}
	r.releases = append(r.releases, releaseCall{slotID: id, amount: amount})
	return nil
}

func (r *fakeSlotRepo) Confirm(context.Context, db.DBTX, uuid.UUID, int32) (bool, error) {
	panic("not used")
}

type fakeLockRepo struct {
	mu         sync.Mutex
	expired    []shared.SlotCapacityRelease
	expiredErr error
	sweeps     int
}

func (r *fakeLockRepo) Create(context.Context, db.DBTX, *domlock.Lock) error { panic("not used") }

func (r *fakeLockRepo) FindForUpdate(context.Context, db.DBTX, uuid.UUID) (*shared.LockSnapshot, error) {
	panic("not used")
}

func (r *fakeLockRepo) DeleteOwned(context.Context, db.DBTX, uuid.UUID, string) (*shared.LockSnapshot, error) {
	panic("not used")
}

func (r *fakeLockRepo) Delete(context.Context, db.DBTX, uuid.UUID) (bool, error) {
	panic("not used")
}

func (r *fakeLockRepo) DeleteExpired(_ context.Context, _ db.DBTX, _ time.Time) ([]shared.SlotCapacityRelease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweeps++
	if r.expiredErr != nil {
		return nil, r.expiredErr
	}
	out := r.expired
	r.expired = nil
	return out, nil
}

type fakeBookingRepo struct {
	mu            sync.Mutex
	invoices      map[uuid.UUID]string
	getInvoiceErr error
	setInvoiceErr error
	setCalls      int
}

func (r *fakeBookingRepo) Create(context.Context, db.DBTX, *booking.Booking) error {
	panic("not used")
}

func (r *fakeBookingRepo) FindForUpdate(context.Context, db.DBTX, uuid.UUID) (*shared.BookingSnapshot, error) {
	panic("not used")
}

func (r *fakeBookingRepo) UpdateStatus(context.Context, db.DBTX, uuid.UUID, booking.Status) error {
	panic("not used")
}

func (r *fakeBookingRepo) UpdatePaymentStatus(context.Context, db.DBTX, uuid.UUID, booking.PaymentStatus) error {
	panic("not used")
}

func (r *fakeBookingRepo) SetInvoiceID(_ context.Context, _ db.DBTX, id uuid.UUID, invoiceID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setInvoiceErr != nil {
		return false, r.setInvoiceErr
	}
	r.setCalls++
	if _, exists := r.invoices[id]; exists {
		return false, nil
	}
	r.invoices[id] = invoiceID
	return true, nil
}

func (r *fakeBookingRepo) GetInvoiceID(_ context.Context, _ db.DBTX, id uuid.UUID) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getInvoiceErr != nil {
		return nil, r.getInvoiceErr
	}
	if inv, exists := r.invoices[id]; exists {
		return &inv, nil
	}
	return nil, nil
}

type rescheduleCall struct {
	jobID     uuid.UUID
	attempts  int32
	nextRunAt time.Time
}

type fakeRetryJobRepo struct {
	mu          sync.Mutex
	due         []*retryjob.Job
	claimErr    error
	completed   []uuid.UUID
	failed      []uuid.UUID
	rescheduled []rescheduleCall
}

func (r *fakeRetryJobRepo) Enqueue(context.Context, db.DBTX, *retryjob.Job) error {
	panic("not used")
}

func (r *fakeRetryJobRepo) ClaimDueBatch(_ context.Context, _ db.DBTX, _ time.Time, _ time.Time, limit int32) ([]*retryjob.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimErr != nil {
		return nil, r.claimErr
	}
	n := int(limit)
	if n > len(r.due) {
		n = len(r.due)
	}
	out := r.due[:n]
	r.due = r.due[n:]
	return out, nil
}

func (r *fakeRetryJobRepo) Complete(_ context.Context, _ db.DBTX, id uuid.UUID, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, id)
	return nil
}

func (r *fakeRetryJobRepo) Fail(_ context.Context, _ db.DBTX, id uuid.UUID, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, id)
	return nil
}

func (r *fakeRetryJobRepo) Reschedule(_ context.Context, _ db.DBTX, id uuid.UUID, attempts int32, nextRunAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rescheduled = append(r.rescheduled, rescheduleCall{jobID: id, attempts: attempts, nextRunAt: nextRunAt})
	return nil
}
