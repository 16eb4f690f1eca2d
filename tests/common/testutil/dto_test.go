//go:build unit

package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestField(t *testing.T) {
	newMap := func() map[string]any {
		return map[string]any{
			"email": "a@example.com",
			"products": []any{
				map[string]any{"id": "1", "totalInventory": float64(0)},
			},
		}
	}

	t.Run("top level set and delete", func(t *testing.T) {
		m := newMap()
		Field("email", "b@example.com")(m)
		assert.Equal(t, "b@example.com", m["email"])
		Field("email", nil)(m)
		assert.NotContains(t, m, "email")
	})

	t.Run("nested array element", func(t *testing.T) {
		m := newMap()
		Field("products.0.totalInventory", -1)(m)
		Field("products.0.id", nil)(m)
		p := m["products"].([]any)[0].(map[string]any)
		assert.Equal(t, -1, p["totalInventory"])
		assert.NotContains(t, p, "id")
	})

	t.Run("missing path is a no-op", func(t *testing.T) {
		m := newMap()
		Field("products.3.id", "x")(m)
		Field("schedule.cron", "x")(m)
		assert.Equal(t, newMap(), m)
	})
}
