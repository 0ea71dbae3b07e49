package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyCheckedIn  = errors.New("booking already checked in")
	ErrNotCheckedIn      = errors.New("booking not checked in")
	ErrTerminalStatus    = errors.New("booking is in a terminal status")
	ErrAlreadyPaid       = errors.New("booking already paid")
	ErrInvoiceAlreadySet = errors.New("invoice already issued for booking")
	ErrEmptyInvoiceID    = errors.New("invoice id must not be empty")
)

type Booking struct {
	id            uuid.UUID
	tenantID      uuid.UUID
	serviceID     uuid.UUID
	slotID        uuid.UUID
	customerID    uuid.UUID
	headCount     HeadCount
	total         Money
	status        Status
	paymentStatus PaymentStatus
	offerID       *uuid.UUID
	// lockID records the originating hold for audit only; it is never
	// re-validated after commit.
	lockID    *uuid.UUID
	invoiceID *string
	createdAt time.Time
	updatedAt time.Time
}

func NewBooking(
	tenantID, serviceID, slotID, customerID uuid.UUID,
	headCount HeadCount,
	total Money,
	offerID *uuid.UUID,
	lockID *uuid.UUID,
) *Booking {
	return &Booking{
		id:            uuid.New(),
		tenantID:      tenantID,
		serviceID:     serviceID,
		slotID:        slotID,
		customerID:    customerID,
		headCount:     headCount,
		total:         total,
		status:        StatusConfirmed,
		paymentStatus: PaymentUnpaid,
		offerID:       offerID,
		lockID:        lockID,
	}
}

func ReconstructBooking(
	id, tenantID, serviceID, slotID, customerID uuid.UUID,
	headCount HeadCount,
	total Money,
	status Status,
	paymentStatus PaymentStatus,
	offerID, lockID *uuid.UUID,
	invoiceID *string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		tenantID:      tenantID,
		serviceID:     serviceID,
		slotID:        slotID,
		customerID:    customerID,
		headCount:     headCount,
		total:         total,
		status:        status,
		paymentStatus: paymentStatus,
		offerID:       offerID,
		lockID:        lockID,
		invoiceID:     invoiceID,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// CheckIn moves a confirmed booking to checked_in.
func (b *Booking) CheckIn() error {
	switch b.status {
	case StatusConfirmed:
		b.status = StatusCheckedIn
		return nil
	case StatusCheckedIn:
		return ErrAlreadyCheckedIn
	default:
		return ErrTerminalStatus
	}
}

// Complete closes out a checked-in booking.
func (b *Booking) Complete() error {
	if b.status != StatusCheckedIn {
		return ErrNotCheckedIn
	}
	b.status = StatusCompleted
	return nil
}

func (b *Booking) MarkNoShow() error {
	if b.status != StatusConfirmed {
		return ErrTerminalStatus
	}
	b.status = StatusNoShow
	return nil
}

func (b *Booking) MarkPaid(partial bool) error {
	if b.paymentStatus == PaymentPaid {
		return ErrAlreadyPaid
	}
	if partial {
		b.paymentStatus = PaymentPartiallyPaid
	} else {
		b.paymentStatus = PaymentPaid
	}
	return nil
}

func (b *Booking) AttachInvoice(invoiceID string) error {
	if invoiceID == "" {
		return ErrEmptyInvoiceID
	}
	if b.invoiceID != nil {
		return ErrInvoiceAlreadySet
	}
	b.invoiceID = &invoiceID
	return nil
}

func (b *Booking) HasInvoice() bool {
	return b.invoiceID != nil
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) TenantID() uuid.UUID          { return b.tenantID }
func (b *Booking) ServiceID() uuid.UUID         { return b.serviceID }
func (b *Booking) SlotID() uuid.UUID            { return b.slotID }
func (b *Booking) CustomerID() uuid.UUID        { return b.customerID }
func (b *Booking) HeadCount() HeadCount         { return b.headCount }
func (b *Booking) Total() Money                 { return b.total }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) OfferID() *uuid.UUID          { return b.offerID }
func (b *Booking) LockID() *uuid.UUID           { return b.lockID }
func (b *Booking) InvoiceID() *string           { return b.invoiceID }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }
