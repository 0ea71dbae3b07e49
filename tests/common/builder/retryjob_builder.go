//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/retryjob"

	"github.com/google/uuid"
)

type RetryJobBuilder struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	Status     retryjob.Status
	Attempts   int32
	MaxRetries int32
	NextRunAt  time.Time
	CreatedAt  time.Time
	StartedAt  *time.Time
}

func NewRetryJobBuilder() *RetryJobBuilder {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	return &RetryJobBuilder{
		ID:         uuid.New(),
		BookingID:  uuid.New(),
		Status:     retryjob.StatusPending,
		Attempts:   0,
		MaxRetries: 3,
		NextRunAt:  now,
		CreatedAt:  now,
	}
}

func (b *RetryJobBuilder) With(mutate func(*RetryJobBuilder)) *RetryJobBuilder {
	mutate(b)
	return b
}

func (b *RetryJobBuilder) BuildDomain() (*retryjob.Job, error) {
	return retryjob.NewJob(retryjob.InvoiceIssuePayload{BookingID: b.BookingID}, b.MaxRetries, b.CreatedAt)
}

func (b *RetryJobBuilder) Reconstruct() *retryjob.Job {
	return retryjob.ReconstructJob(
		b.ID,
		retryjob.KindInvoiceIssue,
		b.Status,
		retryjob.InvoiceIssuePayload{BookingID: b.BookingID},
		b.Attempts, b.MaxRetries,
		b.NextRunAt, b.CreatedAt,
		b.StartedAt, nil,
	)
}
