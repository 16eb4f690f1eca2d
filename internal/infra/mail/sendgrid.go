package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"stock-notifier/internal/domain/notification"
	"stock-notifier/internal/pkg/config"
	"stock-notifier/internal/pkg/errs"
)

const defaultSendGridBaseURL = "https://api.sendgrid.com"

// SendGridError carries a non-202 response from the v3 mail send API.
type SendGridError struct {
	StatusCode int
	Body       string
}

func (e *SendGridError) Error() string {
	return fmt.Sprintf("sendgrid: unexpected status %d: %s", e.StatusCode, e.Body)
}

type SendGridTransport struct {
	client  *http.Client
	apiKey  string
	baseURL string
	from    string
}

func NewSendGridTransport(client *http.Client, cfg config.SendGridConfig, from string) *SendGridTransport {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultSendGridBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &SendGridTransport{
		client:  client,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		from:    from,
	}
}

type sendGridPayload struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (t *SendGridTransport) Send(ctx context.Context, msg notification.Message) error {
	body, err := json.Marshal(sendGridPayload{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: msg.To}}}},
		From:             sendGridAddress{Email: t.from},
		Subject:          msg.Subject,
		Content:          []sendGridContent{{Type: "text/plain", Value: msg.Body}},
	})
	if err != nil {
		return errs.Wrap(err, "marshal sendgrid payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "build sendgrid request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return errs.Wrap(err, "sendgrid request")
	}
	defer resp.Body.Close()

	// 202 Accepted on success
	if resp.StatusCode == http.StatusAccepted || resp.StatusCode == http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &SendGridError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
}
