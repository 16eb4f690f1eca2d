//go:build unit

package notification_test

import (
	"testing"

	"stock-notifier/internal/domain/notification"
	"stock-notifier/internal/domain/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeOutOfStock(t *testing.T) {
	widget := product.ReconstructSnapshot("1", "Widget", 0, 1)
	gadget := product.ReconstructSnapshot("2", "", 0, 3)

	t.Run("single product", func(t *testing.T) {
		msg, err := notification.ComposeOutOfStock(" merchant@example.com ", "Out of stock products", []product.Snapshot{widget})
		require.NoError(t, err)

		assert.Equal(t, "merchant@example.com", msg.To)
		assert.Equal(t, "Out of stock products", msg.Subject)
		assert.Equal(t, "The following product is out of stock:\n\n- Widget (id: 1, variants: 1)\n", msg.Body)
	})

	t.Run("multiple products keep order and fall back to id", func(t *testing.T) {
		msg, err := notification.ComposeOutOfStock("merchant@example.com", "s", []product.Snapshot{widget, gadget})
		require.NoError(t, err)

		assert.Equal(t,
			"The following 2 products are out of stock:\n\n- Widget (id: 1, variants: 1)\n- 2 (id: 2, variants: 3)\n",
			msg.Body,
		)
	})

	t.Run("requires products", func(t *testing.T) {
		_, err := notification.ComposeOutOfStock("merchant@example.com", "s", nil)
		assert.ErrorIs(t, err, notification.ErrNoProducts)
	})

	t.Run("requires recipient", func(t *testing.T) {
		_, err := notification.ComposeOutOfStock("  ", "s", []product.Snapshot{widget})
		assert.ErrorIs(t, err, notification.ErrEmptyRecipient)
	})
}
