package bootstrap

import (
	"log/slog"

	"stock-notifier/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	fx.Invoke(logActiveBackends),
)

// logActiveBackends records which mail transport, schedule store and lock the
// process runs with. Secrets are never logged.
func logActiveBackends(cfg config.Config, logger *slog.Logger) {
	lock := "none"
	if cfg.Redis.URL != "" {
		lock = "redis"
	}
	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"mail_transport", cfg.Mail.Transport,
		"schedule_store", cfg.Scheduler.Store,
		"schedule_timezone", cfg.Scheduler.TimeZone,
		"fire_lock", lock,
	)
}
