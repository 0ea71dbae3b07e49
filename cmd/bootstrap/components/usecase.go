package components

import (
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"
	"booking-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewLockCommands,
		NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewSlotQueries,
		queries.NewLockQueries,
		queries.NewBookingQueries,
	),
)

func NewLockCommands(uowImpl shared.UnitOfWork, clk clock.Clock, cfg config.Config) commands.LockCommands {
	return commands.NewLockCommands(uowImpl, clk, cfg.Lock.TTL)
}

func NewBookingCommands(
	uowImpl shared.UnitOfWork,
	jobs shared.RetryJobRepository,
	clk clock.Clock,
	notifier commands.BookingNotifier,
	cfg config.Config,
) commands.BookingCommands {
	return commands.NewBookingCommands(uowImpl, jobs, clk, notifier, cfg.RetryQueue.MaxRetries)
}
