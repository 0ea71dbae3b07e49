package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/lock"
	"booking-engine/internal/domain/retryjob"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"
)

var (
	ErrBookingNotFound       = errs.New("booking not found")
	ErrLockExpiredOrInvalid  = errs.New("lock is expired or does not exist")
	ErrSessionMismatch       = errs.New("lock is held by a different session")
	ErrSlotMismatch          = errs.New("lock does not belong to the requested slot")
	ErrQuantityMismatch      = errs.New("lock capacity does not match party size")
	ErrTenantDeactivated     = errs.New("tenant is deactivated")
	ErrInvalidOffer          = errs.New("offer is missing, inactive, or for another service")
	ErrInsufficientCapacity  = errs.New("slot capacity no longer covers the party")
	ErrInvalidBookingRequest = errs.New("invalid booking request")
	ErrInvalidTransition     = errs.New("booking status transition not allowed")
)

const notifyTimeout = 5 * time.Second

type CreateBookingParams struct {
	SlotID     uuid.UUID
	CustomerID uuid.UUID
	SessionID  string
	AdultCount int32
	ChildCount int32
	TotalCount int32
	TotalCents int64
	OfferID    *uuid.UUID
	LockID     *uuid.UUID
}

type BookingCommands interface {
	Create(ctx context.Context, params CreateBookingParams) (uuid.UUID, error)
	CheckIn(ctx context.Context, bookingID uuid.UUID) error
	Complete(ctx context.Context, bookingID uuid.UUID) error
	MarkNoShow(ctx context.Context, bookingID uuid.UUID) error
	RecordPayment(ctx context.Context, bookingID uuid.UUID, partial bool) error
}

type bookingCommands struct {
	uow        shared.UnitOfWork
	jobs       shared.RetryJobRepository
	clk        clock.Clock
	notifier   BookingNotifier
	maxRetries int32
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	jobs shared.RetryJobRepository,
	clk clock.Clock,
	notifier BookingNotifier,
	maxRetries int32,
) BookingCommands {
	return &bookingCommands{uow: uow, jobs: jobs, clk: clk, notifier: notifier, maxRetries: maxRetries}
}

// Create commits a booking in a single transaction: lock validation, tenant
// and offer checks, the hard capacity decrement, and the booking row all
// succeed or roll back together. Side effects (invoice job, notification)
// run after commit and never fail the booking.
func (c *bookingCommands) Create(ctx context.Context, params CreateBookingParams) (uuid.UUID, error) {
	headCount, err := booking.NewHeadCount(params.AdultCount, params.ChildCount, params.TotalCount)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidBookingRequest)
	}
	total, err := booking.NewMoney(params.TotalCents)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidBookingRequest)
	}

	var (
		bookingID uuid.UUID
		tenantID  uuid.UUID
		serviceID uuid.UUID
	)
	txErr := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var heldLock *lock.Lock
		if params.LockID != nil {
			lk, err := c.validateLock(ctx, tx, *params.LockID, params)
			if err != nil {
				return err
			}
			heldLock = lk
		}

		slot, err := tx.Slots().FindForUpdate(ctx, tx.DB(), params.SlotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrSlotNotFound)
			}
			return errs.Wrap(err, "failed to load slot")
		}

		tenant, err := tx.Reads().TenantByID(ctx, slot.TenantID)
		if err != nil {
			return errs.Wrap(err, "failed to load tenant")
		}
		if !tenant.IsActive {
			return errs.Mark(errs.New("tenant inactive"), ErrTenantDeactivated)
		}

		if params.OfferID != nil {
			offer, err := tx.Reads().OfferByID(ctx, *params.OfferID)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return errs.Mark(err, ErrInvalidOffer)
				}
				return errs.Wrap(err, "failed to load offer")
			}
			if !offer.IsActive || offer.ServiceID != slot.ServiceID {
				return errs.Mark(errs.New("offer not applicable"), ErrInvalidOffer)
			}
		}

		// A held lock already decremented available capacity; hand it back
		// before the availability check so the lock holder competes for the
		// exact units it reserved. Both writes share this transaction.
		if heldLock != nil {
			if _, err := tx.Locks().Delete(ctx, tx.DB(), heldLock.ID()); err != nil {
				return errs.Wrap(err, "failed to consume lock")
			}
			if err := tx.Slots().Release(ctx, tx.DB(), slot.ID, heldLock.ReservedCapacity()); err != nil {
				return errs.Wrap(err, "failed to return held capacity")
			}
		}

		confirmed, err := tx.Slots().Confirm(ctx, tx.DB(), slot.ID, headCount.Total())
		if err != nil {
			return errs.Wrap(err, "failed to confirm capacity")
		}
		if !confirmed {
			return errs.Mark(errs.New("capacity check failed at commit"), ErrInsufficientCapacity)
		}

		b := booking.NewBooking(slot.TenantID, slot.ServiceID, slot.ID, params.CustomerID, headCount, total, params.OfferID, params.LockID)
		if err := tx.Bookings().Create(ctx, tx.DB(), b); err != nil {
			return errs.Wrap(err, "failed to persist booking")
		}

		bookingID = b.ID()
		tenantID = slot.TenantID
		serviceID = slot.ServiceID
		return nil
	})
	if txErr != nil {
		return uuid.Nil, txErr
	}

	c.afterCommit(ctx, BookingConfirmedEvent{
		BookingID:  bookingID,
		TenantID:   tenantID,
		ServiceID:  serviceID,
		SlotID:     params.SlotID,
		CustomerID: params.CustomerID,
		TotalCount: params.TotalCount,
		TotalCents: params.TotalCents,
		BookedAt:   c.clk.Now(),
	})

	return bookingID, nil
}

func (c *bookingCommands) validateLock(ctx context.Context, tx shared.Tx, lockID uuid.UUID, params CreateBookingParams) (*lock.Lock, error) {
	snap, err := tx.Locks().FindForUpdate(ctx, tx.DB(), lockID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrLockExpiredOrInvalid)
		}
		return nil, errs.Wrap(err, "failed to load lock")
	}

	lk := lock.ReconstructLock(snap.ID, snap.SlotID, snap.SessionID, snap.ReservedCapacity, snap.AcquiredAt, snap.ExpiresAt)
	switch {
	case lk.Expired(c.clk.Now()):
		return nil, errs.Mark(errs.New("lock past expiry"), ErrLockExpiredOrInvalid)
	case !lk.OwnedBy(params.SessionID):
		return nil, errs.Mark(errs.New("session does not own lock"), ErrSessionMismatch)
	case lk.SlotID() != params.SlotID:
		return nil, errs.Mark(errs.New("lock held on another slot"), ErrSlotMismatch)
	case lk.ReservedCapacity() != params.TotalCount:
		return nil, errs.Mark(errs.New("lock amount differs from party size"), ErrQuantityMismatch)
	}
	return lk, nil
}

// afterCommit enqueues invoice issuance and publishes the confirmation.
// Failures here are logged only; the booking is already durable.
func (c *bookingCommands) afterCommit(ctx context.Context, event BookingConfirmedEvent) {
	job, err := retryjob.NewJob(retryjob.InvoiceIssuePayload{BookingID: event.BookingID}, c.maxRetries, c.clk.Now())
	if err != nil {
		slog.Error("failed to build invoice job", "booking_id", event.BookingID, "error", err.Error())
	} else {
		// A client disconnect cancels the request context as soon as the
		// booking commits; the enqueue must still land or the invoice job
		// is lost with no retry path.
		jctx := context.WithoutCancel(ctx)
		if err := c.uow.WithDB(jctx, func(ctx context.Context, dbtx db.DBTX) error {
			return c.jobs.Enqueue(ctx, dbtx, job)
		}); err != nil {
			slog.Error("failed to enqueue invoice job", "booking_id", event.BookingID, "error", err.Error())
		}
	}

	if c.notifier == nil {
		return
	}
	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := c.notifier.PublishBookingConfirmed(nctx, event); err != nil {
			slog.Warn("booking notification publish failed", "booking_id", event.BookingID, "error", err.Error())
		}
	}()
}

func (c *bookingCommands) CheckIn(ctx context.Context, bookingID uuid.UUID) error {
	return c.transition(ctx, bookingID, func(b *booking.Booking) error { return b.CheckIn() })
}

func (c *bookingCommands) Complete(ctx context.Context, bookingID uuid.UUID) error {
	return c.transition(ctx, bookingID, func(b *booking.Booking) error { return b.Complete() })
}

func (c *bookingCommands) MarkNoShow(ctx context.Context, bookingID uuid.UUID) error {
	return c.transition(ctx, bookingID, func(b *booking.Booking) error { return b.MarkNoShow() })
}

func (c *bookingCommands) transition(ctx context.Context, bookingID uuid.UUID, apply func(*booking.Booking) error) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := c.loadForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if err := apply(b); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, b.Status()); err != nil {
			return errs.Wrap(err, "failed to update booking status")
		}
		return nil
	})
}

func (c *bookingCommands) RecordPayment(ctx context.Context, bookingID uuid.UUID, partial bool) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := c.loadForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if err := b.MarkPaid(partial); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if err := tx.Bookings().UpdatePaymentStatus(ctx, tx.DB(), bookingID, b.PaymentStatus()); err != nil {
			return errs.Wrap(err, "failed to update payment status")
		}
		return nil
	})
}

func (c *bookingCommands) loadForUpdate(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*booking.Booking, error) {
	snap, err := tx.Bookings().FindForUpdate(ctx, tx.DB(), bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, errs.Wrap(err, "failed to load booking")
	}
	headCount, err := booking.NewHeadCount(snap.AdultCount, snap.ChildCount, snap.TotalCount)
	if err != nil {
		return nil, errs.Wrap(err, "stored head count invalid")
	}
	total, err := booking.NewMoney(snap.TotalCents)
	if err != nil {
		return nil, errs.Wrap(err, "stored total invalid")
	}
	return booking.ReconstructBooking(
		snap.ID, snap.TenantID, snap.ServiceID, snap.SlotID, snap.CustomerID,
		headCount, total, snap.Status, snap.PaymentStatus,
		nil, nil, snap.InvoiceID, time.Time{}, time.Time{},
	), nil
}
