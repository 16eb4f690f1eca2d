//go:build unit || e2e

package httptest

import (
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

const RequestIDHeader = "X-Request-ID"

var generatedRequestID = regexp.MustCompile(`^\d{14}-[0-9a-f]{8}$`)

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s mismatch", k)
	}
}

// AssertRequestID checks the echoed request id. An empty want expects a
// server-generated id.
func AssertRequestID(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	got := w.Header().Get(RequestIDHeader)
	if want == "" {
		assert.Regexp(t, generatedRequestID, got)
		return
	}
	assert.Equal(t, want, got)
}
