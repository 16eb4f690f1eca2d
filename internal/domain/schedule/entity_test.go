//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"stock-notifier/internal/domain/product"
	"stock-notifier/internal/domain/schedule"
	"stock-notifier/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewScheduleBuilder()
		job, err := b.BuildDomain()
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, job.ID())
		assert.Equal(t, "0 * * * *", job.Expression())
		assert.Equal(t, "merchant@example.com", job.Recipient())
		assert.Equal(t, schedule.StateScheduled, job.State())
		assert.True(t, job.Active())
		assert.Len(t, job.Products(), 1)
		assert.Equal(t, b.Now, job.CreatedAt())
		assert.True(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC).Equal(job.NextFireAt()))
		assert.Nil(t, job.LastRun())
		assert.Zero(t, job.FireCount())
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*builder.ScheduleBuilder)
			errIs  error
		}{
			{
				name:   "empty recipient",
				mutate: func(b *builder.ScheduleBuilder) { b.WithRecipient("") },
				errIs:  schedule.ErrEmptyRecipient,
			},
			{
				name:   "whitespace recipient",
				mutate: func(b *builder.ScheduleBuilder) { b.WithRecipient("   ") },
				errIs:  schedule.ErrEmptyRecipient,
			},
			{
				name:   "invalid expression",
				mutate: func(b *builder.ScheduleBuilder) { b.WithExpression("60 * * * *") },
				errIs:  schedule.ErrInvalidScheduleExpression,
			},
			{
				name:   "empty products are allowed",
				mutate: func(b *builder.ScheduleBuilder) { b.WithProducts() },
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				b := builder.NewScheduleBuilder()
				tc.mutate(b)
				job, err := b.BuildDomain()
				if tc.errIs != nil {
					require.ErrorIs(t, err, tc.errIs)
					assert.Nil(t, job)
					return
				}
				require.NoError(t, err)
			})
		}
	})

	t.Run("product snapshot is isolated from caller", func(t *testing.T) {
		input := []product.Snapshot{product.ReconstructSnapshot("1", "Widget", 0, 1)}
		job, err := schedule.NewJob(uuid.Nil, "* * * * *", "a@example.com", input, time.Now())
		require.NoError(t, err)

		input[0] = product.ReconstructSnapshot("2", "Gadget", 0, 1)
		got := job.Products()
		assert.Equal(t, "1", got[0].ID())

		got[0] = product.ReconstructSnapshot("3", "Other", 0, 1)
		assert.Equal(t, "1", job.Products()[0].ID())
	})

	t.Run("keeps provided id", func(t *testing.T) {
		id := uuid.New()
		job, err := schedule.NewJob(id, "* * * * *", "a@example.com", nil, time.Now())
		require.NoError(t, err)
		assert.Equal(t, id, job.ID())
	})
}

func TestJobLifecycle(t *testing.T) {
	firedAt := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)

	t.Run("scheduled -> firing -> scheduled", func(t *testing.T) {
		job, err := builder.NewScheduleBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, job.BeginFiring())
		assert.Equal(t, schedule.StateFiring, job.State())
		assert.ErrorIs(t, job.BeginFiring(), schedule.ErrJobAlreadyFiring)

		job.CompleteFiring(schedule.Run{FiredAt: firedAt, Outcome: schedule.OutcomeSent})
		assert.Equal(t, schedule.StateScheduled, job.State())
		assert.Equal(t, 1, job.FireCount())
		assert.Zero(t, job.FailureCount())
		assert.True(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Equal(job.NextFireAt()))
		require.NotNil(t, job.LastRun())
		assert.Equal(t, schedule.OutcomeSent, job.LastRun().Outcome)
	})

	t.Run("failed firing stays scheduled", func(t *testing.T) {
		job, err := builder.NewScheduleBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, job.BeginFiring())
		job.CompleteFiring(schedule.Run{FiredAt: firedAt, Outcome: schedule.OutcomeFailed, Error: "smtp down"})

		assert.Equal(t, schedule.StateScheduled, job.State())
		assert.True(t, job.Active())
		assert.Equal(t, 1, job.FailureCount())
		assert.Equal(t, "smtp down", job.LastRun().Error)

		require.NoError(t, job.BeginFiring())
		job.CompleteFiring(schedule.Run{FiredAt: firedAt.Add(time.Hour), Outcome: schedule.OutcomeSent})
		assert.Equal(t, 2, job.FireCount())
		assert.Equal(t, 1, job.FailureCount())
	})

	t.Run("cancel is terminal", func(t *testing.T) {
		job, err := builder.NewScheduleBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, job.Cancel())
		assert.Equal(t, schedule.StateCancelled, job.State())
		assert.False(t, job.Active())
		assert.True(t, job.NextFireAt().IsZero())
		assert.ErrorIs(t, job.Cancel(), schedule.ErrJobCancelled)
		assert.ErrorIs(t, job.BeginFiring(), schedule.ErrJobCancelled)

		job.Reschedule(firedAt)
		assert.True(t, job.NextFireAt().IsZero())
	})

	t.Run("cancelled while firing stays cancelled", func(t *testing.T) {
		job, err := builder.NewScheduleBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, job.BeginFiring())
		require.NoError(t, job.Cancel())
		job.CompleteFiring(schedule.Run{FiredAt: firedAt, Outcome: schedule.OutcomeSent})
		assert.Equal(t, schedule.StateCancelled, job.State())
	})
}

func TestReconstructJob(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC)
	now := time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC)
	last := &schedule.Run{FiredAt: now.Add(-30 * time.Minute), Outcome: schedule.OutcomeNothingToSend}

	job, err := schedule.ReconstructJob(uuid.New(), "0 * * * *", "a@example.com", nil, createdAt, last, 22, 3, now)
	require.NoError(t, err)

	assert.Equal(t, createdAt, job.CreatedAt())
	assert.Equal(t, 22, job.FireCount())
	assert.Equal(t, 3, job.FailureCount())
	assert.Equal(t, schedule.OutcomeNothingToSend, job.LastRun().Outcome)
	assert.True(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC).Equal(job.NextFireAt()))

	_, err = schedule.ReconstructJob(uuid.New(), "bad", "a@example.com", nil, createdAt, nil, 0, 0, now)
	assert.ErrorIs(t, err, schedule.ErrInvalidScheduleExpression)
}

func TestOutcomeValid(t *testing.T) {
	assert.True(t, schedule.OutcomeSent.Valid())
	assert.True(t, schedule.OutcomeNothingToSend.Valid())
	assert.True(t, schedule.OutcomeFailed.Valid())
	assert.False(t, schedule.Outcome("retrying").Valid())
}

func TestAbortFiring(t *testing.T) {
	job, err := builder.NewScheduleBuilder().BuildDomain()
	require.NoError(t, err)

	require.NoError(t, job.BeginFiring())
	job.AbortFiring()
	assert.Equal(t, schedule.StateScheduled, job.State())
	assert.Zero(t, job.FireCount())
	assert.Nil(t, job.LastRun())

	require.NoError(t, job.Cancel())
	job.AbortFiring()
	assert.Equal(t, schedule.StateCancelled, job.State())
}
