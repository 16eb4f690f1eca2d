//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// DtoMap renders v through its json tags so tests can mutate the wire shape.
func DtoMap(t *testing.T, v any, muts ...func(map[string]any)) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, f := range muts {
		f(m)
	}
	return m
}

// Field sets or, when value is nil, removes the field at path. Segments are
// separated by dots and numeric segments index into arrays, so
// "products.0.totalInventory" reaches the first product.
func Field(path string, value any) func(m map[string]any) {
	segments := strings.Split(path, ".")
	return func(m map[string]any) {
		var cur any = m
		for _, seg := range segments[:len(segments)-1] {
			cur = child(cur, seg)
			if cur == nil {
				return
			}
		}
		last := segments[len(segments)-1]
		switch node := cur.(type) {
		case map[string]any:
			if value == nil {
				delete(node, last)
				return
			}
			node[last] = value
		case []any:
			i, err := strconv.Atoi(last)
			if err != nil || i < 0 || i >= len(node) {
				return
			}
			node[i] = value
		}
	}
}

func child(node any, seg string) any {
	switch n := node.(type) {
	case map[string]any:
		return n[seg]
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(n) {
			return nil
		}
		return n[i]
	}
	return nil
}
