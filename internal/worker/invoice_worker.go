package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"booking-engine/internal/domain/retryjob"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"
)

// InvoiceIssuer calls the external invoicing provider.
type InvoiceIssuer interface {
	IssueInvoice(ctx context.Context, bookingID uuid.UUID) (string, error)
}

// InvoiceWorker drains the durable retry queue: it claims due jobs in
// batches and issues invoices with bounded concurrency. Claims use
// FOR UPDATE SKIP LOCKED so multiple workers never double-process a job.
type InvoiceWorker struct {
	uow      shared.UnitOfWork
	jobs     shared.RetryJobRepository
	bookings shared.BookingRepository
	issuer   InvoiceIssuer
	clk      clock.Clock
	cfg      config.RetryQueueConfig
	backoff  retryjob.BackoffSchedule
}

func NewInvoiceWorker(
	uow shared.UnitOfWork,
	jobs shared.RetryJobRepository,
	bookings shared.BookingRepository,
	issuer InvoiceIssuer,
	clk clock.Clock,
	cfg config.RetryQueueConfig,
) *InvoiceWorker {
	return &InvoiceWorker{
		uow:      uow,
		jobs:     jobs,
		bookings: bookings,
		issuer:   issuer,
		clk:      clk,
		cfg:      cfg,
		backoff: retryjob.BackoffSchedule{
			BaseDelay: cfg.BaseDelay,
			MaxDelay:  cfg.MaxDelay,
		},
	}
}

func (w *InvoiceWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.SweepInterval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("invoice worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *InvoiceWorker) sweep(ctx context.Context) {
	if _, err := w.SweepOnce(ctx); err != nil {
		slog.Error("retry queue sweep failed", "error", err.Error())
	}
}

// SweepOnce claims one batch of due jobs and processes it. Returns the
// number of jobs claimed.
func (w *InvoiceWorker) SweepOnce(ctx context.Context) (int, error) {
	jobs, err := w.claimBatch(ctx)
	if err != nil {
		return 0, err
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	// Bounded fan-out. Each job settles its own outcome, so one slow or
	// failing invoice never blocks the rest of the batch.
	sem := make(chan struct{}, w.cfg.Concurrency)
	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(job *retryjob.Job) {
			defer wg.Done()
			defer func() { <-sem }()
			w.process(ctx, job)
		}(job)
	}
	wg.Wait()

	return len(jobs), nil
}

func (w *InvoiceWorker) claimBatch(ctx context.Context) ([]*retryjob.Job, error) {
	var jobs []*retryjob.Job
	err := w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := w.clk.Now()
		claimed, err := tx.RetryJobs().ClaimDueBatch(ctx, tx.DB(), now, now.Add(-w.cfg.StaleThreshold), w.cfg.BatchSize)
		if err != nil {
			return errs.Wrap(err, "failed to claim retry jobs")
		}
		jobs = claimed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (w *InvoiceWorker) process(ctx context.Context, job *retryjob.Job) {
	var err error
	switch p := job.Payload().(type) {
	case retryjob.InvoiceIssuePayload:
		err = w.issueInvoice(ctx, job, p)
	default:
		// Unknown kinds are terminal; retrying cannot make them decodable.
		slog.Error("retry job has unknown kind", "job_id", job.ID(), "kind", job.JobKind())
		w.settleFailure(ctx, job, true)
		return
	}

	if err != nil {
		slog.Warn("invoice issue attempt failed",
			"job_id", job.ID(),
			"attempts", job.Attempts()+1,
			"error", err.Error())
		w.settleFailure(ctx, job, false)
		return
	}
	w.settleSuccess(ctx, job)
}

func (w *InvoiceWorker) issueInvoice(ctx context.Context, job *retryjob.Job, p retryjob.InvoiceIssuePayload) error {
	// Idempotency guard: a crash after issuance but before completion must
	// not issue a second invoice for the same booking.
	var existing *string
	if err := w.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		invoiceID, err := w.bookings.GetInvoiceID(ctx, dbtx, p.BookingID)
		if err != nil {
			return err
		}
		existing = invoiceID
		return nil
	}); err != nil {
		return errs.Wrap(err, "failed to check existing invoice")
	}
	if existing != nil {
		slog.Info("invoice already issued, skipping", "job_id", job.ID(), "booking_id", p.BookingID)
		return nil
	}

	invoiceID, err := w.issuer.IssueInvoice(ctx, p.BookingID)
	if err != nil {
		return err
	}

	return w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		set, err := tx.Bookings().SetInvoiceID(ctx, tx.DB(), p.BookingID, invoiceID)
		if err != nil {
			return errs.Wrap(err, "failed to record invoice id")
		}
		if !set {
			slog.Warn("invoice id already present, keeping first",
				"booking_id", p.BookingID, "discarded_invoice_id", invoiceID)
		}
		return nil
	})
}

func (w *InvoiceWorker) settleSuccess(ctx context.Context, job *retryjob.Job) {
	now := w.clk.Now()
	job.Complete(now)
	if err := w.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		return w.jobs.Complete(ctx, dbtx, job.ID(), now)
	}); err != nil {
		// The stale re-claim will pick the job up again; the invoice check
		// above keeps the redo harmless.
		slog.Error("failed to mark job completed", "job_id", job.ID(), "error", err.Error())
	}
}

func (w *InvoiceWorker) settleFailure(ctx context.Context, job *retryjob.Job, terminal bool) {
	now := w.clk.Now()
	if !terminal {
		job.RecordFailure(now, w.backoff)
	}

	err := w.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		if terminal || job.Status() == retryjob.StatusFailed {
			return w.jobs.Fail(ctx, dbtx, job.ID(), now)
		}
		return w.jobs.Reschedule(ctx, dbtx, job.ID(), job.Attempts(), job.NextRunAt())
	})
	if err != nil {
		slog.Error("failed to settle job failure", "job_id", job.ID(), "error", err.Error())
		return
	}
	if terminal || job.Status() == retryjob.StatusFailed {
		slog.Error("retry job permanently failed", "job_id", job.ID(), "kind", job.JobKind(), "attempts", job.Attempts())
	}
}
