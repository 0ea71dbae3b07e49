//go:build unit

package commands_test

import (
	"context"
	"time"

	"booking-engine/internal/domain/booking"
	domlock "booking-engine/internal/domain/lock"
	"booking-engine/internal/domain/retryjob"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Stateful in-memory doubles for the write-side transaction. Fields are
// plain structs configured per test; methods record the calls they serve.

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

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

func (u *fakeUoW) CommandReads() shared.CommandReads { return u.tx.reads }

// disconnectingUoW cancels the request context the moment the transaction
// returns, like gin does when the client hangs up mid-response, and rejects
// later work on a canceled context the way the pgx pool would.
type disconnectingUoW struct {
	*fakeUoW
	cancel context.CancelFunc
}

func (u *disconnectingUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	err := u.fakeUoW.Within(ctx, fn)
	u.cancel()
	return err
}

func (u *disconnectingUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return u.fakeUoW.WithDB(ctx, fn)
}

type fakeTx struct {
	slots    *fakeSlotRepo
	locks    *fakeLockRepo
	bookings *fakeBookingRepo
	jobs     *fakeRetryJobRepo
	reads    *fakeCommandReads
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		slots:    &fakeSlotRepo{reserveOK: true, confirmOK: true},
		locks:    &fakeLockRepo{},
		bookings: &fakeBookingRepo{},
		jobs:     &fakeRetryJobRepo{},
		reads:    &fakeCommandReads{},
	}
}

func (t *fakeTx) Slots() shared.SlotRepository         { return t.slots }
func (t *fakeTx) Locks() shared.LockRepository         { return t.locks }
func (t *fakeTx) Bookings() shared.BookingRepository   { return t.bookings }
func (t *fakeTx) RetryJobs() shared.RetryJobRepository { return t.jobs }
func (t *fakeTx) Reads() shared.CommandReads           { return t.reads }
func (t *fakeTx) DB() db.DBTX                          { return nil }

type capacityCall struct {
	slotID uuid.UUID
	amount int32
}

type fakeSlotRepo struct {
	snapshot  *shared.SlotSnapshot
	reserveOK bool
	confirmOK bool
	reserves  []capacityCall
	releases  []capacityCall
	confirms  []capacityCall
}

func (r *fakeSlotRepo) FindForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.SlotSnapshot, error) {
	if r.snapshot == nil || r.snapshot.ID != id {
		return nil, notFoundErr("slot not found")
	}
	return r.snapshot, nil
}

func (r *fakeSlotRepo) TryReserve(_ context.Context, _ db.DBTX, id uuid.UUID, amount int32) (bool, error) {
	if !r.reserveOK {
		return false, nil
	}
	r.reserves = append(r.reserves, capacityCall{slotID: id, amount: amount})
	return true, nil
}

func (r *fakeSlotRepo) Release(_ context.Context, _ db.DBTX, id uuid.UUID, amount int32) error {
	r.releases = append(r.releases, capacityCall{slotID: id, amount: amount})
	return nil
}

func (r *fakeSlotRepo) Confirm(_ context.Context, _ db.DBTX, id uuid.UUID, amount int32) (bool, error) {
	if !r.confirmOK {
		return false, nil
	}
	r.confirms = append(r.confirms, capacityCall{slotID: id, amount: amount})
	return true, nil
}

type fakeLockRepo struct {
	snapshot *shared.LockSnapshot
	created  []*domlock.Lock
	deleted  []uuid.UUID
}

func (r *fakeLockRepo) Create(_ context.Context, _ db.DBTX, l *domlock.Lock) error {
	r.created = append(r.created, l)
	return nil
}

func (r *fakeLockRepo) FindForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.LockSnapshot, error) {
	if r.snapshot == nil || r.snapshot.ID != id {
		return nil, notFoundErr("lock not found")
	}
	return r.snapshot, nil
}

func (r *fakeLockRepo) DeleteOwned(_ context.Context, _ db.DBTX, id uuid.UUID, sessionID string) (*shared.LockSnapshot, error) {
	if r.snapshot == nil || r.snapshot.ID != id || r.snapshot.SessionID != sessionID {
		return nil, notFoundErr("lock not found for session")
	}
	r.deleted = append(r.deleted, id)
	return r.snapshot, nil
}

func (r *fakeLockRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) (bool, error) {
	r.deleted = append(r.deleted, id)
	return true, nil
}

func (r *fakeLockRepo) DeleteExpired(context.Context, db.DBTX, time.Time) ([]shared.SlotCapacityRelease, error) {
	panic("not used")
}

type statusUpdate struct {
	bookingID uuid.UUID
	status    booking.Status
}

type paymentUpdate struct {
	bookingID uuid.UUID
	status    booking.PaymentStatus
}

type fakeBookingRepo struct {
	snapshot       *shared.BookingSnapshot
	created        []*booking.Booking
	statusUpdates  []statusUpdate
	paymentUpdates []paymentUpdate
}

func (r *fakeBookingRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	r.created = append(r.created, b)
	return nil
}

func (r *fakeBookingRepo) FindForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.BookingSnapshot, error) {
	if r.snapshot == nil || r.snapshot.ID != id {
		return nil, notFoundErr("booking not found")
	}
	return r.snapshot, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status booking.Status) error {
	r.statusUpdates = append(r.statusUpdates, statusUpdate{bookingID: id, status: status})
	return nil
}

func (r *fakeBookingRepo) UpdatePaymentStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status booking.PaymentStatus) error {
	r.paymentUpdates = append(r.paymentUpdates, paymentUpdate{bookingID: id, status: status})
	return nil
}

func (r *fakeBookingRepo) SetInvoiceID(context.Context, db.DBTX, uuid.UUID, string) (bool, error) {
	panic("not used")
}

func (r *fakeBookingRepo) GetInvoiceID(context.Context, db.DBTX, uuid.UUID) (*string, error) {
	panic("not used")
}

type fakeRetryJobRepo struct {
	enqueued   []*retryjob.Job
	enqueueErr error
}

func (r *fakeRetryJobRepo) Enqueue(_ context.Context, _ db.DBTX, job *retryjob.Job) error {
	if r.enqueueErr != nil {
		return r.enqueueErr
	}
	r.enqueued = append(r.enqueued, job)
	return nil
}

func (r *fakeRetryJobRepo) ClaimDueBatch(context.Context, db.DBTX, time.Time, time.Time, int32) ([]*retryjob.Job, error) {
	panic("not used")
}

func (r *fakeRetryJobRepo) Complete(context.Context, db.DBTX, uuid.UUID, time.Time) error {
	panic("not used")
}

func (r *fakeRetryJobRepo) Fail(context.Context, db.DBTX, uuid.UUID, time.Time) error {
	panic("not used")
}

func (r *fakeRetryJobRepo) Reschedule(context.Context, db.DBTX, uuid.UUID, int32, time.Time) error {
	panic("not used")
}

type fakeCommandReads struct {
	tenant *shared.TenantSnapshot
	offer  *shared.OfferSnapshot
}

func (r *fakeCommandReads) TenantByID(_ context.Context, id uuid.UUID) (*shared.TenantSnapshot, error) {
	if r.tenant != nil && r.tenant.ID == id {
		return r.tenant, nil
	}
	// Tests that never configure a tenant treat every tenant as active.
	return &shared.TenantSnapshot{ID: id, IsActive: true}, nil
}

func (r *fakeCommandReads) OfferByID(_ context.Context, id uuid.UUID) (*shared.OfferSnapshot, error) {
	if r.offer == nil || r.offer.ID != id {
		return nil, notFoundErr("offer not found")
	}
	return r.offer, nil
}

func (r *fakeCommandReads) SlotByID(context.Context, uuid.UUID) (*shared.SlotSnapshot, error) {
	panic("not used")
}

func (r *fakeCommandReads) LockByID(context.Context, uuid.UUID) (*shared.LockSnapshot, error) {
	panic("not used")
}

type fakeNotifier struct {
	published chan commands.BookingConfirmedEvent
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{published: make(chan commands.BookingConfirmedEvent, 4)}
}

func (n *fakeNotifier) PublishBookingConfirmed(_ context.Context, event commands.BookingConfirmedEvent) error {
	n.published <- event
	return nil
}
