//go:build unit

package mail_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stock-notifier/internal/domain/notification"
	"stock-notifier/internal/infra/mail"
	"stock-notifier/internal/pkg/config"
	"stock-notifier/tests/common/mailtest"
	sharedmock "stock-notifier/tests/mock/shared"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testMessage = notification.Message{
	To:      "merchant@example.com",
	Subject: "Out of stock products",
	Body:    "The following product is out of stock:\n\n- Widget (id: 1, variants: 1)\n",
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// SendGrid
// =============================================================================

func TestSendGridTransport(t *testing.T) {
	t.Run("posts the v3 payload with bearer auth", func(t *testing.T) {
		var payload map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v3/mail/send", r.URL.Path)
			assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		tr := mail.NewSendGridTransport(srv.Client(), config.SendGridConfig{APIKey: "sg-key", BaseURL: srv.URL + "/"}, "shop@example.com")
		require.NoError(t, tr.Send(context.Background(), testMessage))

		assert.Equal(t, "Out of stock products", payload["subject"])
		assert.Equal(t, map[string]any{"email": "shop@example.com"}, payload["from"])
		personalizations := payload["personalizations"].([]any)
		to := personalizations[0].(map[string]any)["to"].([]any)
		assert.Equal(t, "merchant@example.com", to[0].(map[string]any)["email"])
		content := payload["content"].([]any)[0].(map[string]any)
		assert.Equal(t, "text/plain", content["type"])
		assert.Equal(t, testMessage.Body, content["value"])
	})

	t.Run("non-2xx becomes SendGridError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}` + "\n"))
		}))
		defer srv.Close()

		tr := mail.NewSendGridTransport(srv.Client(), config.SendGridConfig{APIKey: "x", BaseURL: srv.URL}, "shop@example.com")
		err := tr.Send(context.Background(), testMessage)

		var sgErr *mail.SendGridError
		require.True(t, errors.As(err, &sgErr))
		assert.Equal(t, http.StatusUnauthorized, sgErr.StatusCode)
		assert.Equal(t, `{"errors":[{"message":"bad key"}]}`, sgErr.Body)
	})

	t.Run("cancelled context aborts the request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		tr := mail.NewSendGridTransport(srv.Client(), config.SendGridConfig{APIKey: "x", BaseURL: srv.URL}, "shop@example.com")
		assert.ErrorIs(t, tr.Send(ctx, testMessage), context.Canceled)
	})
}

// =============================================================================
// Breaker / rate limit
// =============================================================================

func TestBreakerTransport(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := sharedmock.NewMockMailTransport(ctrl)
	cause := errors.New("provider down")

	// exactly MaxFailures calls reach the provider before it opens
	next.EXPECT().Send(gomock.Any(), gomock.Any()).Return(cause).Times(3)

	tr := mail.NewBreakerTransport(next, mail.BreakerSettings{Name: "test", MaxFailures: 3, OpenTimeout: time.Minute}, discardLogger())
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, tr.Send(context.Background(), testMessage), cause)
	}
	assert.Equal(t, gobreaker.StateOpen, tr.State())

	err := tr.Send(context.Background(), testMessage)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestBreakerTransportRecovers(t *testing.T) {
	rec := mailtest.NewRecorder()
	rec.FailWith(errors.New("provider down"))

	tr := mail.NewBreakerTransport(rec, mail.BreakerSettings{Name: "test", MaxFailures: 1, OpenTimeout: 10 * time.Millisecond}, discardLogger())
	require.Error(t, tr.Send(context.Background(), testMessage))
	require.Equal(t, gobreaker.StateOpen, tr.State())

	rec.Reset()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, tr.Send(context.Background(), testMessage))
	assert.Equal(t, gobreaker.StateClosed, tr.State())
	assert.Len(t, rec.Messages(), 1)
}

func TestRateLimitedTransport(t *testing.T) {
	t.Run("burst passes through", func(t *testing.T) {
		rec := mailtest.NewRecorder()
		tr := mail.NewRateLimitedTransport(rec, 1, 3)
		for i := 0; i < 3; i++ {
			require.NoError(t, tr.Send(context.Background(), testMessage))
		}
		assert.Len(t, rec.Messages(), 3)
	})

	t.Run("wait honours context deadline", func(t *testing.T) {
		var calls atomic.Int32
		next := &countingTransport{calls: &calls}
		tr := mail.NewRateLimitedTransport(next, 0.001, 1)
		require.NoError(t, tr.Send(context.Background(), testMessage))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.Error(t, tr.Send(ctx, testMessage))
		assert.Equal(t, int32(1), calls.Load())
	})
}

type countingTransport struct {
	calls *atomic.Int32
}

func (c *countingTransport) Send(context.Context, notification.Message) error {
	c.calls.Add(1)
	return nil
}

// =============================================================================
// Factory
// =============================================================================

func TestNewTransport(t *testing.T) {
	base := config.NewTestConfig().Mail

	for _, name := range []string{config.MailTransportLog, config.MailTransportSMTP, config.MailTransportSendGrid} {
		t.Run(name, func(t *testing.T) {
			cfg := base
			cfg.Transport = name
			tr, err := mail.NewTransport(cfg, discardLogger())
			require.NoError(t, err)
			assert.IsType(t, &mail.RateLimitedTransport{}, tr)
		})
	}

	t.Run("unknown transport", func(t *testing.T) {
		cfg := base
		cfg.Transport = "carrier-pigeon"
		_, err := mail.NewTransport(cfg, discardLogger())
		assert.Error(t, err)
	})

	t.Run("log transport delivers end to end", func(t *testing.T) {
		cfg := base
		cfg.Transport = config.MailTransportLog
		tr, err := mail.NewTransport(cfg, discardLogger())
		require.NoError(t, err)
		assert.NoError(t, tr.Send(context.Background(), testMessage))
	})
}
