package bootstrap

import (
	"context"
	"log/slog"

	"drivebook/internal/pkg/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

var AMQPModule = fx.Module("amqp",
	fx.Provide(
		NewAMQP,
	),
)

// NewAMQP returns nil when the broker is unreachable; notification intents
// are best effort and must not block serving traffic.
func NewAMQP(lc fx.Lifecycle, cfg config.Config) *amqp.Connection {
	conn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		slog.Warn("AMQP connection failed, notifications disabled", "error", err.Error())
		return nil
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return conn.Close()
		},
	})

	return conn
}
