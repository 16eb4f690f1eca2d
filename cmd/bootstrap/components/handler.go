package components

import (
	"stock-notifier/internal/handler"
	"stock-notifier/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewNotificationHandler,
	),
	fx.Invoke(handler.NewRouter),
)
