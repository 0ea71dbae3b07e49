package bootstrap

import (
	"context"
	"log/slog"

	"booking-engine/internal/infra/notify"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/commands"

	"go.uber.org/fx"
)

var AMQPModule = fx.Module("amqp",
	fx.Provide(
		fx.Annotate(
			NewPublisher,
			fx.As(new(commands.BookingNotifier)),
		),
	),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config) *notify.AMQPPublisher {
	pub, err := notify.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.QueueName)
	if err != nil {
		// Publishing re-dials lazily, so the broker being down at boot only
		// costs the first events.
		slog.Warn("amqp publisher degraded at startup", "error", err.Error())
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			pub.Close()
			return nil
		},
	})

	return pub
}
