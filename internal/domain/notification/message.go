package notification

import (
	"fmt"
	"strings"

	"stock-notifier/internal/domain/product"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// ComposeOutOfStock renders the plain-text report for the given products.
func ComposeOutOfStock(recipient, subject string, products []product.Snapshot) (Message, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return Message{}, ErrEmptyRecipient
	}
	if len(products) == 0 {
		return Message{}, ErrNoProducts
	}

	var b strings.Builder
	if len(products) == 1 {
		b.WriteString("The following product is out of stock:\n\n")
	} else {
		fmt.Fprintf(&b, "The following %d products are out of stock:\n\n", len(products))
	}
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (id: %s, variants: %d)\n", p.DisplayTitle(), p.ID(), p.TotalVariants())
	}

	return Message{
		To:      recipient,
		Subject: subject,
		Body:    b.String(),
	}, nil
}
