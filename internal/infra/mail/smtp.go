package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"stock-notifier/internal/domain/notification"
	"stock-notifier/internal/pkg/config"
	"stock-notifier/internal/pkg/errs"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPTransport struct {
	addr     string
	host     string
	from     string
	auth     smtp.Auth
	sendMail sendMailFunc
}

func NewSMTPTransport(cfg config.SMTPConfig, from string) *SMTPTransport {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPTransport{
		addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		host:     cfg.Host,
		from:     from,
		auth:     auth,
		sendMail: smtp.SendMail,
	}
}

// Send runs the SMTP exchange on its own goroutine so ctx can bound it.
// A send abandoned on ctx expiry may still complete in the background.
func (t *SMTPTransport) Send(ctx context.Context, msg notification.Message) error {
	raw := buildRFC822(t.from, msg)

	done := make(chan error, 1)
	go func() {
		done <- t.sendMail(t.addr, t.auth, t.from, []string{msg.To}, raw)
	}()

	select {
	case err := <-done:
		if err != nil {
			return errs.Wrapf(err, "smtp send via %s", t.addr)
		}
		return nil
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "smtp send")
	}
}

func buildRFC822(from string, msg notification.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
