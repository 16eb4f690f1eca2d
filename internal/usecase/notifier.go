package usecase

//go:generate mockgen -source=notifier.go -destination=../../tests/mock/usecase/notifier.go -package=usecasemock

import (
	"context"
	"log/slog"
	"time"

	"stock-notifier/internal/domain/notification"
	"stock-notifier/internal/domain/product"
	"stock-notifier/internal/usecase/shared"
)

type Notifier interface {
	// Send delivers one message for products, or reports ResultNothingToSend when there are none.
	Send(ctx context.Context, recipient string, products []product.Snapshot) (notification.Result, error)
}

type NotifierConfig struct {
	Subject string
	// per-send deadline; zero leaves ctx untouched
	Timeout time.Duration
}

type notifierImpl struct {
	transport shared.MailTransport
	cfg       NotifierConfig
	logger    *slog.Logger
}

func NewNotifier(transport shared.MailTransport, cfg NotifierConfig, logger *slog.Logger) Notifier {
	return &notifierImpl{
		transport: transport,
		cfg:       cfg,
		logger:    logger,
	}
}

func (n *notifierImpl) Send(ctx context.Context, recipient string, products []product.Snapshot) (notification.Result, error) {
	if len(products) == 0 {
		n.logger.Debug("nothing to send", "recipient", recipient)
		return notification.ResultNothingToSend, nil
	}

	msg, err := notification.ComposeOutOfStock(recipient, n.cfg.Subject, products)
	if err != nil {
		return "", err
	}

	if n.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.cfg.Timeout)
		defer cancel()
	}

	if err := n.transport.Send(ctx, msg); err != nil {
		return "", &MailTransportError{Recipient: msg.To, Err: err}
	}

	n.logger.Info("out-of-stock email sent", "recipient", msg.To, "products", len(products))
	return notification.ResultSent, nil
}
