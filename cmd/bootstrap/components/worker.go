package components

import (
	"context"

	"booking-engine/internal/infra/invoicing"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/shared"
	"booking-engine/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewInvoicingClient,
		NewLockReaper,
		NewInvoiceWorker,
	),
	fx.Invoke(runWorkers),
)

func NewInvoicingClient(cfg config.Config) worker.InvoiceIssuer {
	return invoicing.NewClient(cfg.Invoicing.BaseURL, cfg.Invoicing.Timeout)
}

func NewLockReaper(uowImpl shared.UnitOfWork, clk clock.Clock, cfg config.Config) *worker.LockReaper {
	return worker.NewLockReaper(uowImpl, clk, cfg.Lock.ReapInterval)
}

func NewInvoiceWorker(
	uowImpl shared.UnitOfWork,
	jobs shared.RetryJobRepository,
	bookings shared.BookingRepository,
	issuer worker.InvoiceIssuer,
	clk clock.Clock,
	cfg config.Config,
) *worker.InvoiceWorker {
	return worker.NewInvoiceWorker(uowImpl, jobs, bookings, issuer, clk, cfg.RetryQueue)
}

func runWorkers(lc fx.Lifecycle, reaper *worker.LockReaper, invoices *worker.InvoiceWorker) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, 2)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				reaper.Run(ctx)
				done <- struct{}{}
			}()
			go func() {
				invoices.Run(ctx)
				done <- struct{}{}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			for i := 0; i < 2; i++ {
				select {
				case <-done:
				case <-stopCtx.Done():
					return stopCtx.Err()
				}
			}
			return nil
		},
	})
}
