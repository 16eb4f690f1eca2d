package usecase

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

type cronLogger struct {
	logger *slog.Logger
}

// NewCronLogger routes robfig/cron's internal logging to slog. Info is demoted
// to debug since cron logs every wake-up.
func NewCronLogger(logger *slog.Logger) cron.Logger {
	return &cronLogger{logger: logger.With("component", "cron")}
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{"error", err}, keysAndValues...)
	l.logger.Error(msg, args...)
}
