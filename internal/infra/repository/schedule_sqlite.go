package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"stock-notifier/internal/domain/schedule"
	"stock-notifier/internal/infra"
	"stock-notifier/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	sqliteUpsertSchedule = `
INSERT INTO email_schedules (id, expression, recipient, products, created_at, last_fired_at, last_outcome, last_error, fire_count, failure_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    expression = excluded.expression,
    recipient = excluded.recipient,
    products = excluded.products,
    last_fired_at = excluded.last_fired_at,
    last_outcome = excluded.last_outcome,
    last_error = excluded.last_error,
    fire_count = excluded.fire_count,
    failure_count = excluded.failure_count`

	sqliteUpdateRun = `
UPDATE email_schedules
SET last_fired_at = ?, last_outcome = ?, last_error = ?, fire_count = ?, failure_count = ?
WHERE id = ?`

	sqliteDeleteSchedule = `DELETE FROM email_schedules WHERE id = ?`

	sqliteListSchedules = `
SELECT id, expression, recipient, products, created_at, last_fired_at, last_outcome, last_error, fire_count, failure_count
FROM email_schedules
ORDER BY created_at, id`
)

// SQLiteScheduleStore stores times as unix milliseconds.
type SQLiteScheduleStore struct {
	db      *sql.DB
	logger  *slog.Logger
	repoErr infra.ErrorReporter
}

var _ shared.ScheduleStore = (*SQLiteScheduleStore)(nil)

func NewSQLiteScheduleStore(db *sql.DB, logger *slog.Logger) *SQLiteScheduleStore {
	return &SQLiteScheduleStore{db: db, logger: logger, repoErr: infra.NewErrorReporter("sqlite", logger)}
}

func (s *SQLiteScheduleStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return s.repoErr.Wrap(infra.KindDBFailure, "failed to apply schedule schema", err)
	}
	return nil
}

func (s *SQLiteScheduleStore) Save(ctx context.Context, rec shared.ScheduleRecord) error {
	products, err := json.Marshal(rec.Products)
	if err != nil {
		return s.repoErr.Wrap(infra.KindDecodeFailure, "failed to encode products", err)
	}
	firedAt, outcome, lastErr := sqliteRunColumns(rec.LastRun)

	_, err = s.db.ExecContext(ctx, sqliteUpsertSchedule,
		rec.ID.String(), rec.Expression, rec.Recipient, string(products), rec.CreatedAt.UnixMilli(),
		firedAt, outcome, lastErr, rec.FireCount, rec.FailureCount,
	)
	if err != nil {
		return s.repoErr.Wrap(infra.KindDBFailure, "failed to save schedule", err)
	}
	return nil
}

func (s *SQLiteScheduleStore) SaveRun(ctx context.Context, id uuid.UUID, run schedule.Run, fireCount, failureCount int) error {
	firedAt, outcome, lastErr := sqliteRunColumns(&run)
	res, err := s.db.ExecContext(ctx, sqliteUpdateRun, firedAt, outcome, lastErr, fireCount, failureCount, id.String())
	if err != nil {
		return s.repoErr.Wrap(infra.KindDBFailure, "failed to save schedule run", err)
	}
	return s.requireRow(res)
}

func (s *SQLiteScheduleStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, sqliteDeleteSchedule, id.String())
	if err != nil {
		return s.repoErr.Wrap(infra.KindDBFailure, "failed to delete schedule", err)
	}
	return s.requireRow(res)
}

func (s *SQLiteScheduleStore) List(ctx context.Context) ([]shared.ScheduleRecord, error) {
	rows, err := s.db.QueryContext(ctx, sqliteListSchedules)
	if err != nil {
		return nil, s.repoErr.Wrap(infra.KindDBFailure, "failed to list schedules", err)
	}
	defer rows.Close()

	var out []shared.ScheduleRecord
	for rows.Next() {
		var (
			rawID       string
			rec         shared.ScheduleRecord
			products    string
			createdAt   int64
			lastFiredAt sql.NullInt64
			lastOutcome sql.NullString
			lastError   sql.NullString
		)
		if err := rows.Scan(&rawID, &rec.Expression, &rec.Recipient, &products, &createdAt,
			&lastFiredAt, &lastOutcome, &lastError, &rec.FireCount, &rec.FailureCount); err != nil {
			return nil, s.repoErr.Wrap(infra.KindDBFailure, "failed to scan schedule", err)
		}

		id, err := uuid.Parse(rawID)
		if err != nil {
			s.logger.Warn("skipping schedule with invalid id", "job_id", rawID, "error", err.Error())
			continue
		}
		rec.ID = id
		rec.CreatedAt = time.UnixMilli(createdAt).UTC()

		if err := json.Unmarshal([]byte(products), &rec.Products); err != nil {
			s.logger.Warn("skipping schedule with undecodable products", "job_id", rawID, "error", err.Error())
			continue
		}

		var firedAt *time.Time
		if lastFiredAt.Valid {
			t := time.UnixMilli(lastFiredAt.Int64).UTC()
			firedAt = &t
		}
		rec.LastRun = runFromColumns(firedAt, nullStringPtr(lastOutcome), nullStringPtr(lastError))
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.repoErr.Wrap(infra.KindDBFailure, "failed to iterate schedules", err)
	}
	return out, nil
}

func (s *SQLiteScheduleStore) requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return s.repoErr.Wrap(infra.KindDBFailure, "failed to read affected rows", err)
	}
	if n == 0 {
		return s.repoErr.Wrap(infra.KindNotFound, "schedule not found", nil)
	}
	return nil
}

func sqliteRunColumns(run *schedule.Run) (sql.NullInt64, sql.NullString, sql.NullString) {
	firedAt, outcome, lastErr := runColumns(run)
	var (
		f sql.NullInt64
		o sql.NullString
		e sql.NullString
	)
	if firedAt != nil {
		f = sql.NullInt64{Int64: firedAt.UnixMilli(), Valid: true}
	}
	if outcome != nil {
		o = sql.NullString{String: *outcome, Valid: true}
	}
	if lastErr != nil {
		e = sql.NullString{String: *lastErr, Valid: true}
	}
	return f, o, e
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
