//go:build unit

package infra_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"stock-notifier/internal/infra"
	"stock-notifier/internal/pkg/errs"
	"stock-notifier/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorReporter(t *testing.T) {
	t.Run("not found matches the shared sentinel and logs at debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		err := infra.NewErrorReporter("memory", logger).Wrap(infra.KindNotFound, "schedule not found", nil)

		assert.ErrorIs(t, err, shared.ErrRecordNotFound)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		assert.Equal(t, "NOT_FOUND: schedule not found", err.Error())
		assert.Empty(t, buf.String())
	})

	t.Run("db failure keeps the cause, is marked and logs at error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		cause := errors.New("connection reset by peer")

		err := infra.NewErrorReporter("postgres", logger).Wrap(infra.KindDBFailure, "failed to save schedule", cause)

		assert.ErrorIs(t, err, cause)
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
		assert.False(t, errs.Is(err, errs.ErrLockUnavailable))
		assert.NotErrorIs(t, err, shared.ErrRecordNotFound)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
		assert.False(t, infra.IsKind(err, infra.KindNotFound))
		assert.Contains(t, err.Error(), "connection reset by peer")

		var repoErr infra.RepositoryError
		require.ErrorAs(t, err, &repoErr)
		assert.Equal(t, "postgres", repoErr.Store)

		out := buf.String()
		assert.Contains(t, out, "level=ERROR")
		assert.Contains(t, out, "kind=DB_FAILURE")
		assert.Contains(t, out, "store=postgres")
	})

	t.Run("each kind carries its marker", func(t *testing.T) {
		r := infra.NewErrorReporter("sqlite", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		cause := errors.New("x")

		assert.True(t, errs.Is(r.Wrap(infra.KindDecodeFailure, "decode", cause), errs.ErrRecordDecodeFailed))
		assert.True(t, errs.Is(r.Wrap(infra.KindLockFailure, "lock", cause), errs.ErrLockUnavailable))
	})

	t.Run("plain errors have no kind", func(t *testing.T) {
		assert.False(t, infra.IsKind(errors.New("x"), infra.KindDBFailure))
	})
}
