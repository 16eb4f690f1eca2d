//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"stock-notifier/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpression(t *testing.T) {
	t.Run("accepted expressions", func(t *testing.T) {
		cases := []struct {
			expr       string
			normalized string
		}{
			{expr: "* * * * *", normalized: "* * * * *"},
			{expr: "0 * * * *", normalized: "0 * * * *"},
			{expr: "0 0 * * 0", normalized: "0 0 * * 0"},
			{expr: "*/15 9-17 * * 1-5", normalized: "*/15 9-17 * * 1-5"},
			{expr: "0,30 * * * *", normalized: "0,30 * * * *"},
			{expr: "0 9 1-7 JAN,JUL MON", normalized: "0 9 1-7 JAN,JUL MON"},
			{expr: "  0   *  * * *  ", normalized: "0 * * * *"},
			{expr: "59 23 31 12 6", normalized: "59 23 31 12 6"},
		}
		for _, tc := range cases {
			t.Run(tc.expr, func(t *testing.T) {
				trigger, err := schedule.ParseExpression(tc.expr)
				require.NoError(t, err)
				assert.Equal(t, tc.normalized, trigger.Expression())
				assert.False(t, trigger.IsZero())
			})
		}
	})

	t.Run("rejected expressions", func(t *testing.T) {
		cases := []struct {
			name string
			expr string
		}{
			{name: "empty", expr: ""},
			{name: "blank", expr: "   "},
			{name: "four fields", expr: "* * * *"},
			{name: "six fields", expr: "0 0 * * * *"},
			{name: "descriptor", expr: "@hourly"},
			{name: "minute out of range", expr: "60 * * * *"},
			{name: "hour out of range", expr: "0 24 * * *"},
			{name: "day of month zero", expr: "0 0 0 * *"},
			{name: "day of month out of range", expr: "0 0 32 * *"},
			{name: "month zero", expr: "0 0 * 0 *"},
			{name: "month out of range", expr: "0 0 * 13 *"},
			{name: "day of week out of range", expr: "0 0 * * 7"},
			{name: "garbage", expr: "every hour please ok"},
			{name: "inverted range", expr: "30-10 * * * *"},
			{name: "never fires", expr: "0 0 30 2 *"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				trigger, err := schedule.ParseExpression(tc.expr)
				require.ErrorIs(t, err, schedule.ErrInvalidScheduleExpression)
				assert.True(t, trigger.IsZero())
			})
		}
	})
}

func TestTriggerNext(t *testing.T) {
	at := func(s string) time.Time {
		t.Helper()
		v, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return v
	}

	cases := []struct {
		name string
		expr string
		from time.Time
		want time.Time
	}{
		{
			name: "hourly from quarter past",
			expr: "0 * * * *",
			from: at("2024-01-01T10:15:00Z"),
			want: at("2024-01-01T11:00:00Z"),
		},
		{
			name: "strictly after a matching instant",
			expr: "0 * * * *",
			from: at("2024-01-01T11:00:00Z"),
			want: at("2024-01-01T12:00:00Z"),
		},
		{
			name: "every minute ignores seconds",
			expr: "* * * * *",
			from: at("2024-01-01T10:15:30Z"),
			want: at("2024-01-01T10:16:00Z"),
		},
		{
			name: "step field",
			expr: "*/15 * * * *",
			from: at("2024-01-01T10:15:00Z"),
			want: at("2024-01-01T10:30:00Z"),
		},
		{
			name: "day 31 skips short months",
			expr: "30 9 31 * *",
			from: at("2024-04-01T00:00:00Z"),
			want: at("2024-05-31T09:30:00Z"),
		},
		{
			name: "leap day",
			expr: "0 0 29 2 *",
			from: at("2024-03-01T00:00:00Z"),
			want: at("2028-02-29T00:00:00Z"),
		},
		{
			name: "day-of-month OR day-of-week when both restricted",
			expr: "0 0 13 * 5",
			from: at("2024-09-01T00:00:00Z"),
			want: at("2024-09-06T00:00:00Z"),
		},
		{
			name: "day-of-month only when day-of-week is wildcard",
			expr: "0 0 13 * *",
			from: at("2024-09-01T00:00:00Z"),
			want: at("2024-09-13T00:00:00Z"),
		},
		{
			name: "stepped weekday wildcard ANDs with day-of-month",
			expr: "0 0 1 * */2",
			from: at("2024-09-01T00:00:00Z"),
			want: at("2024-10-01T00:00:00Z"),
		},
		{
			name: "stepped day-of-month wildcard ANDs with weekday",
			expr: "0 0 */10 * 5",
			from: at("2024-09-01T00:00:00Z"),
			want: at("2024-10-11T00:00:00Z"),
		},
		{
			name: "named weekday",
			expr: "0 9 * * MON",
			from: at("2024-01-01T10:00:00Z"),
			want: at("2024-01-08T09:00:00Z"),
		},
		{
			name: "year rollover",
			expr: "0 0 1 1 *",
			from: at("2024-12-31T23:59:00Z"),
			want: at("2025-01-01T00:00:00Z"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trigger, err := schedule.ParseExpression(tc.expr)
			require.NoError(t, err)

			got := trigger.Next(tc.from)
			assert.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
			assert.True(t, got.After(tc.from))
		})
	}

	t.Run("evaluated in the location of from", func(t *testing.T) {
		jst := time.FixedZone("JST", 9*60*60)
		trigger, err := schedule.ParseExpression("0 9 * * *")
		require.NoError(t, err)

		got := trigger.Next(time.Date(2024, 1, 1, 10, 0, 0, 0, jst))
		assert.True(t, time.Date(2024, 1, 2, 9, 0, 0, 0, jst).Equal(got), "got %s", got)
	})

	t.Run("zero trigger never fires", func(t *testing.T) {
		assert.True(t, schedule.Trigger{}.Next(time.Now()).IsZero())
	})
}
