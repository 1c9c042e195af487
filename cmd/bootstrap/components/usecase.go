package components

import (
	"log/slog"

	"drivebook/internal/infra/calendar"
	"drivebook/internal/infra/notifier"
	"drivebook/internal/infra/slotlock"
	"drivebook/internal/pkg/clock"
	"drivebook/internal/pkg/config"
	"drivebook/internal/usecase/commands"
	"drivebook/internal/usecase/queries"
	"drivebook/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCollaboratorsModule,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCollaboratorsModule = fx.Module("usecase/collaborators",
	fx.Provide(
		fx.Annotate(
			calendar.NewClient,
			fx.As(new(commands.CalendarProvider)),
		),
		func(cfg config.Config) config.CalendarConfig {
			return cfg.Calendar
		},
		func(client *redis.Client) commands.SlotLocker {
			return slotlock.NewRedisLocker(client)
		},
		func(conn *amqp.Connection) commands.Notifier {
			return notifier.NewRabbitMQNotifier(conn)
		},
		func(cfg config.Config) (commands.ConflictPolicy, error) {
			return commands.ParseConflictPolicy(cfg.Calendar.ConflictPolicy)
		},
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(reads shared.CommandReads, cal commands.CalendarProvider, cfg config.Config, logger *slog.Logger) *commands.ConflictChecker {
			return commands.NewConflictChecker(reads, cal, cfg.Calendar.Timeout, logger)
		},
		commands.NewBookingUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewReservationQueries,
	),
)
