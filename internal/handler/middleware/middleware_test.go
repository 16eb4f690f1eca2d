//go:build unit

package middleware

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stock-notifier/internal/handler/httperr"
	"stock-notifier/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogConfig(level string) config.LogConfig {
	return config.LogConfig{Level: level, TimeZone: "UTC", TimeFormat: time.RFC3339}
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("echoes the caller's request id and logs the shop", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLogger(testLogConfig("info"), &buf)

		r := gin.New()
		r.Use(l.LoggingMiddleware())
		var seen string
		r.GET("/ping", func(c *gin.Context) {
			seen = GetRequestID(c)
			c.String(http.StatusOK, "pong")
		})

		w := serve(r, http.MethodGet, "/ping", map[string]string{
			requestIDHeader: "req-123",
			shopHeader:      "demo.myshopify.com",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
		assert.Equal(t, "req-123", seen)
		out := buf.String()
		assert.Contains(t, out, "Request completed")
		assert.Contains(t, out, "request_id=req-123")
		assert.Contains(t, out, "shop=demo.myshopify.com")
		assert.Contains(t, out, "status_code=200")
		assert.NotContains(t, out, "Request started")
	})

	t.Run("generates a request id when absent", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLogger(testLogConfig("debug"), &buf)

		r := gin.New()
		r.Use(l.LoggingMiddleware())
		r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(r, http.MethodGet, "/ping", nil)
		assert.Regexp(t, `^\d{14}-[0-9a-f]{8}$`, w.Header().Get(requestIDHeader))
		assert.Contains(t, buf.String(), "Request started")
	})

	t.Run("level follows status", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLogger(testLogConfig("info"), &buf)

		r := gin.New()
		r.Use(l.LoggingMiddleware())
		r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
		r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

		serve(r, http.MethodGet, "/bad", nil)
		assert.Contains(t, buf.String(), "level=WARN")
		buf.Reset()
		serve(r, http.MethodGet, "/boom", nil)
		assert.Contains(t, buf.String(), "level=ERROR")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("DEBUG").String())
	assert.Equal(t, "WARN", parseLevel("warn").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("verbose").String())
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	r := gin.New()
	r.Use(CustomRecovery(logger), ErrorHandler(logger))
	r.GET("/public", func(c *gin.Context) {
		httperr.AbortWithError(c, http.StatusNotFound, errors.New("missing"), "Schedule not found", nil)
	})
	r.GET("/status-only", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/private", func(c *gin.Context) {
		_ = c.Error(errors.New("unexpected"))
	})
	r.GET("/panic", func(*gin.Context) { panic("kaboom") })
	r.GET("/deferred", func(c *gin.Context) {
		_ = c.Error(&gin.Error{
			Err:  errors.New("claimed"),
			Type: gin.ErrorTypePublic,
			Meta: httperr.NewResponse(http.StatusConflict, "Schedule is already firing", nil),
		})
	})
	r.GET("/transport", func(c *gin.Context) {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("smtp: 421 busy"), "Failed to send email", nil)
	})

	t.Run("public error renders its response", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/public", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":{"message":"Schedule not found"}}`, w.Body.String())
	})

	t.Run("bare status passes through", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/status-only", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("private error becomes 500", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/private", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal server error")
	})

	t.Run("panic is recovered", func(t *testing.T) {
		logs.Reset()
		w := serve(r, http.MethodGet, "/panic", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal server error")
		assert.Contains(t, logs.String(), "kaboom")
	})

	t.Run("public error left unwritten is rendered", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/deferred", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":{"message":"Schedule is already firing"}}`, w.Body.String())
	})

	t.Run("5xx cause is logged but not rendered", func(t *testing.T) {
		logs.Reset()
		w := serve(r, http.MethodGet, "/transport", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":{"message":"Failed to send email"}}`, w.Body.String())
		assert.Contains(t, logs.String(), "smtp: 421 busy")
	})
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.CORSConfig{
		AllowOrigins: []string{"https://admin.shopify.com"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       time.Hour,
	}
	r := gin.New()
	r.Use(NewCORSMiddleware(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.POST("/api/send-email", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/api/send-email", map[string]string{
		"Origin":                         "https://admin.shopify.com",
		"Access-Control-Request-Method":  "POST",
		"Access-Control-Request-Headers": "X-Shopify-Shop-Domain",
	})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.shopify.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Shopify-Shop-Domain")

	w = serve(r, http.MethodOptions, "/api/send-email", map[string]string{
		"Origin":                        "https://evil.example.com",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMergeHeaders(t *testing.T) {
	got := mergeHeaders([]string{"Origin", "Content-Type"}, []string{"Content-Type", "X-Request-ID"})
	assert.Equal(t, []string{"Origin", "Content-Type", "X-Request-ID"}, got)
	assert.Equal(t, []string{"X-Request-ID"}, mergeHeaders(nil, []string{"X-Request-ID"}))
}

func TestValidRequestID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"req-123", true},
		{"20240101101500-deadbeef", true},
		{"a.b_c", true},
		{"", false},
		{"has space", false},
		{"line\nbreak", false},
		{"ünicode", false},
		{strings.Repeat("a", 64), true},
		{strings.Repeat("a", 65), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, validRequestID(tc.id), "id %q", tc.id)
	}
}
