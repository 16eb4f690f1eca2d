package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"stock-notifier/internal/domain/schedule"
	"stock-notifier/internal/infra"
	"stock-notifier/internal/pkg/pgconv"
	"stock-notifier/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	pgUpsertSchedule = `
INSERT INTO email_schedules (id, expression, recipient, products, created_at, last_fired_at, last_outcome, last_error, fire_count, failure_count)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    expression = EXCLUDED.expression,
    recipient = EXCLUDED.recipient,
    products = EXCLUDED.products,
    last_fired_at = EXCLUDED.last_fired_at,
    last_outcome = EXCLUDED.last_outcome,
    last_error = EXCLUDED.last_error,
    fire_count = EXCLUDED.fire_count,
    failure_count = EXCLUDED.failure_count`

	pgUpdateRun = `
UPDATE email_schedules
SET last_fired_at = $2, last_outcome = $3, last_error = $4, fire_count = $5, failure_count = $6
WHERE id = $1`

	pgDeleteSchedule = `DELETE FROM email_schedules WHERE id = $1`

	pgListSchedules = `
SELECT id, expression, recipient, products, created_at, last_fired_at, last_outcome, last_error, fire_count, failure_count
FROM email_schedules
ORDER BY created_at, id`
)

type PostgresScheduleStore struct {
	db      DBTX
	logger  *slog.Logger
	repoErr infra.ErrorReporter
}

var _ shared.ScheduleStore = (*PostgresScheduleStore)(nil)

func NewPostgresScheduleStore(db DBTX, logger *slog.Logger) *PostgresScheduleStore {
	return &PostgresScheduleStore{db: db, logger: logger, repoErr: infra.NewErrorReporter("postgres", logger)}
}

func (s *PostgresScheduleStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, postgresSchema); err != nil {
		return s.repoErr.Wrap(infra.KindDBFailure, "failed to apply schedule schema", err)
	}
	return nil
}

func (s *PostgresScheduleStore) Save(ctx context.Context, rec shared.ScheduleRecord) error {
	products, err := json.Marshal(rec.Products)
	if err != nil {
		return s.repoErr.Wrap(infra.KindDecodeFailure, "failed to encode products", err)
	}
	firedAt, outcome, lastErr := runColumns(rec.LastRun)

	_, err = s.db.Exec(ctx, pgUpsertSchedule,
		pgconv.UUIDToPgtype(rec.ID),
		rec.Expression,
		rec.Recipient,
		products,
		pgconv.TimeToPgtype(rec.CreatedAt),
		pgconv.TimePtrToPgtype(firedAt),
		pgconv.StringPtrToPgtype(outcome),
		pgconv.StringPtrToPgtype(lastErr),
		rec.FireCount,
		rec.FailureCount,
	)
	if err != nil {
		return s.repoErr.Wrap(infra.KindDBFailure, "failed to save schedule", err)
	}
	return nil
}

func (s *PostgresScheduleStore) SaveRun(ctx context.Context, id uuid.UUID, run schedule.Run, fireCount, failureCount int) error {
	firedAt, outcome, lastErr := runColumns(&run)
	tag, err := s.db.Exec(ctx, pgUpdateRun,
		pgconv.UUIDToPgtype(id),
		pgconv.TimePtrToPgtype(firedAt),
		pgconv.StringPtrToPgtype(outcome),
		pgconv.StringPtrToPgtype(lastErr),
		fireCount,
		failureCount,
	)
	if err != nil {
		return s.repoErr.Wrap(infra.KindDBFailure, "failed to save schedule run", err)
	}
	if tag.RowsAffected() == 0 {
		return s.repoErr.Wrap(infra.KindNotFound, "schedule not found", nil)
	}
	return nil
}

func (s *PostgresScheduleStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, pgDeleteSchedule, pgconv.UUIDToPgtype(id))
	if err != nil {
		return s.repoErr.Wrap(infra.KindDBFailure, "failed to delete schedule", err)
	}
	if tag.RowsAffected() == 0 {
		return s.repoErr.Wrap(infra.KindNotFound, "schedule not found", nil)
	}
	return nil
}

func (s *PostgresScheduleStore) List(ctx context.Context) ([]shared.ScheduleRecord, error) {
	rows, err := s.db.Query(ctx, pgListSchedules)
	if err != nil {
		return nil, s.repoErr.Wrap(infra.KindDBFailure, "failed to list schedules", err)
	}
	defer rows.Close()

	var out []shared.ScheduleRecord
	for rows.Next() {
		var (
			id          pgtype.UUID
			rec         shared.ScheduleRecord
			products    []byte
			createdAt   pgtype.Timestamptz
			lastFiredAt pgtype.Timestamptz
			lastOutcome pgtype.Text
			lastError   pgtype.Text
		)
		if err := rows.Scan(&id, &rec.Expression, &rec.Recipient, &products, &createdAt,
			&lastFiredAt, &lastOutcome, &lastError, &rec.FireCount, &rec.FailureCount); err != nil {
			return nil, s.repoErr.Wrap(infra.KindDBFailure, "failed to scan schedule", err)
		}
		rec.ID = pgconv.UUIDFromPgtype(id)
		rec.CreatedAt = createdAt.Time

		if err := json.Unmarshal(products, &rec.Products); err != nil {
			s.logger.Warn("skipping schedule with undecodable products", "job_id", rec.ID.String(), "error", err.Error())
			continue
		}
		rec.LastRun = runFromColumns(
			pgconv.TimePtrFromPgtype(lastFiredAt),
			pgconv.StringPtrFromPgtype(lastOutcome),
			pgconv.StringPtrFromPgtype(lastError),
		)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.repoErr.Wrap(infra.KindDBFailure, "failed to iterate schedules", err)
	}
	return out, nil
}

func runColumns(run *schedule.Run) (*time.Time, *string, *string) {
	if run == nil {
		return nil, nil, nil
	}
	firedAt := run.FiredAt
	outcome := string(run.Outcome)
	var lastErr *string
	if run.Error != "" {
		e := run.Error
		lastErr = &e
	}
	return &firedAt, &outcome, lastErr
}

// runFromColumns drops runs whose outcome is not recognised.
func runFromColumns(firedAt *time.Time, outcome, lastErr *string) *schedule.Run {
	if firedAt == nil || outcome == nil {
		return nil
	}
	o := schedule.Outcome(*outcome)
	if !o.Valid() {
		return nil
	}
	run := &schedule.Run{FiredAt: *firedAt, Outcome: o}
	if lastErr != nil {
		run.Error = *lastErr
	}
	return run
}
