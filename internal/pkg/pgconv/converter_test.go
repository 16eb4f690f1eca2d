//go:build unit

package pgconv_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"stock-notifier/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, pgconv.UUIDFromPgtype(pgconv.UUIDToPgtype(id)))
	assert.Equal(t, uuid.Nil, pgconv.UUIDFromPgtype(pgtype.UUID{}))
}

func TestNullableConversions(t *testing.T) {
	t.Run("nil pointers become invalid values", func(t *testing.T) {
		assert.False(t, pgconv.StringPtrToPgtype(nil).Valid)
		assert.False(t, pgconv.TimePtrToPgtype(nil).Valid)
		assert.Nil(t, pgconv.StringPtrFromPgtype(pgtype.Text{}))
		assert.Nil(t, pgconv.TimePtrFromPgtype(pgtype.Timestamptz{}))
	})

	t.Run("values survive", func(t *testing.T) {
		msg := "smtp: 421 try later"
		got := pgconv.StringPtrFromPgtype(pgconv.StringPtrToPgtype(&msg))
		require.NotNil(t, got)
		assert.Equal(t, msg, *got)

		now := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
		gotTime := pgconv.TimePtrFromPgtype(pgconv.TimePtrToPgtype(&now))
		require.NotNil(t, gotTime)
		assert.True(t, now.Equal(*gotTime))
	})
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(pgx.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(sql.ErrNoRows))
	assert.False(t, pgconv.IsNoRows(errors.New("other")))
}
