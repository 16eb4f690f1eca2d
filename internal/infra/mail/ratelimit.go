package mail

import (
	"context"

	"stock-notifier/internal/domain/notification"
	"stock-notifier/internal/pkg/errs"
	"stock-notifier/internal/usecase/shared"

	"golang.org/x/time/rate"
)

// RateLimitedTransport spaces outbound sends across all jobs and requests.
type RateLimitedTransport struct {
	next    shared.MailTransport
	limiter *rate.Limiter
}

func NewRateLimitedTransport(next shared.MailTransport, perSecond float64, burst int) *RateLimitedTransport {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (t *RateLimitedTransport) Send(ctx context.Context, msg notification.Message) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return errs.Wrap(err, "mail rate limit")
	}
	return t.next.Send(ctx, msg)
}
