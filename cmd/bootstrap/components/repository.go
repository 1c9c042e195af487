package components

import (
	"drivebook/internal/infra/db"
	"drivebook/internal/infra/readstore"
	"drivebook/internal/infra/uow"
	"drivebook/internal/usecase/queries"
	"drivebook/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		NewCommandReads,
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		fx.Annotate(
			readstore.NewInstructorReadStore,
			fx.As(new(queries.InstructorReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewCommandReads(u shared.UnitOfWork) shared.CommandReads {
	return u.Reads()
}
