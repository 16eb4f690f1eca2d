package mail

import (
	"context"
	"log/slog"
	"time"

	"stock-notifier/internal/domain/notification"
	"stock-notifier/internal/usecase/shared"

	"github.com/sony/gobreaker/v2"
)

type BreakerSettings struct {
	Name string
	// consecutive failures that open the breaker
	MaxFailures uint32
	// how long the breaker stays open before a half-open probe
	OpenTimeout time.Duration
}

// BreakerTransport fails fast with gobreaker.ErrOpenState while the provider is
// considered down.
type BreakerTransport struct {
	next    shared.MailTransport
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerTransport(next shared.MailTransport, s BreakerSettings, logger *slog.Logger) *BreakerTransport {
	maxFailures := s.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("mail circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &BreakerTransport{next: next, breaker: cb}
}

func (t *BreakerTransport) Send(ctx context.Context, msg notification.Message) error {
	_, err := t.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, t.next.Send(ctx, msg)
	})
	return err
}

func (t *BreakerTransport) State() gobreaker.State {
	return t.breaker.State()
}
