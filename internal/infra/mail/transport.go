package mail

import (
	"fmt"
	"log/slog"
	"net/http"

	"stock-notifier/internal/pkg/config"
	"stock-notifier/internal/usecase/shared"
)

// NewTransport builds the configured provider wrapped as rate limit -> breaker -> provider.
func NewTransport(cfg config.MailConfig, logger *slog.Logger) (shared.MailTransport, error) {
	var provider shared.MailTransport
	switch cfg.Transport {
	case config.MailTransportLog:
		provider = NewLogTransport(cfg.From, logger)
	case config.MailTransportSMTP:
		provider = NewSMTPTransport(cfg.SMTP, cfg.From)
	case config.MailTransportSendGrid:
		provider = NewSendGridTransport(&http.Client{Timeout: cfg.Timeout}, cfg.SendGrid, cfg.From)
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}

	breaker := NewBreakerTransport(provider, BreakerSettings{
		Name:        "mail-" + cfg.Transport,
		MaxFailures: cfg.BreakerFailures,
		OpenTimeout: cfg.BreakerTimeout,
	}, logger)

	logger.Info("mail transport configured",
		"transport", cfg.Transport,
		"rate_per_second", cfg.RatePerSecond,
		"burst", cfg.Burst,
	)
	return NewRateLimitedTransport(breaker, cfg.RatePerSecond, cfg.Burst), nil
}
