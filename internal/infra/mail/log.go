package mail

import (
	"context"
	"log/slog"

	"stock-notifier/internal/domain/notification"
)

// LogTransport writes messages to the log instead of delivering them.
type LogTransport struct {
	from   string
	logger *slog.Logger
}

func NewLogTransport(from string, logger *slog.Logger) *LogTransport {
	return &LogTransport{from: from, logger: logger}
}

func (t *LogTransport) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.logger.Info("mail (log transport)",
		"from", t.from,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
