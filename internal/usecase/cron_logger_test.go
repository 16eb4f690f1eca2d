//go:build unit

package usecase_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"stock-notifier/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	l := usecase.NewCronLogger(logger)

	l.Info("wake", "now", "10:00")
	assert.Empty(t, buf.String(), "info is demoted below the configured level")

	l.Error(errors.New("boom"), "panic", "job", "x")
	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "component=cron")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "job=x")
}
