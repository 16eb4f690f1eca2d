package bootstrap

import (
	"stock-notifier/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	components.PersistenceModule,
	components.MailModule,
	components.UseCaseModule,
	components.HandlerModule,
)
