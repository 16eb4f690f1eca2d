package components

import (
	"log/slog"

	"stock-notifier/internal/infra/mail"
	"stock-notifier/internal/pkg/config"
	"stock-notifier/internal/usecase/shared"

	"go.uber.org/fx"
)

var MailModule = fx.Module("mail",
	fx.Provide(
		NewMailTransport,
	),
)

func NewMailTransport(cfg config.Config, logger *slog.Logger) (shared.MailTransport, error) {
	return mail.NewTransport(cfg.Mail, logger)
}
