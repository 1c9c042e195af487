package components

import (
	"drivebook/internal/handler"
	"drivebook/internal/handler/api"
	"drivebook/internal/handler/middleware"
	"drivebook/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewBookingHandler,
		func(cfg config.Config) *middleware.AuthMiddleware {
			return middleware.NewAuthMiddleware(cfg.JWT)
		},
	),
	fx.Invoke(handler.NewRouter),
)
