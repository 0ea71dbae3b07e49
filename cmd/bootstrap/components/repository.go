package components

import (
	"booking-engine/internal/infra/db"
	"booking-engine/internal/infra/readstore"
	"booking-engine/internal/infra/repository"
	"booking-engine/internal/infra/uow"
	"booking-engine/internal/usecase/queries"
	"booking-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		// UnitOfWork
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		// Write-side repositories (stateless; bound to a DBTX per call)
		fx.Annotate(
			repository.NewSlotRepository,
			fx.As(new(shared.SlotRepository)),
		),
		fx.Annotate(
			repository.NewLockRepository,
			fx.As(new(shared.LockRepository)),
		),
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(shared.BookingRepository)),
		),
		fx.Annotate(
			repository.NewRetryJobRepository,
			fx.As(new(shared.RetryJobRepository)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewSlotReadStore,
			fx.As(new(queries.SlotReader)),
		),
		fx.Annotate(
			readstore.NewLockReadStore,
			fx.As(new(queries.LockReader)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReader)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
