//go:build unit || e2e

package dbtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ScheduleRow struct {
	Expression   string
	Recipient    string
	Products     string
	LastOutcome  *string
	FireCount    int
	FailureCount int
}

// FindScheduleRow returns nil when the row does not exist.
func FindScheduleRow(t *testing.T, db DBLike, id uuid.UUID) *ScheduleRow {
	t.Helper()

	var row ScheduleRow
	err := db.QueryRow(context.Background(),
		`SELECT expression, recipient, products::text, last_outcome, fire_count, failure_count
		 FROM email_schedules WHERE id = $1`, id.String(),
	).Scan(&row.Expression, &row.Recipient, &row.Products, &row.LastOutcome, &row.FireCount, &row.FailureCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		require.NoError(t, err)
	}
	return &row
}

func InsertScheduleRow(t *testing.T, db DBLike, id uuid.UUID, expression, recipient, productsJSON string, createdAt time.Time) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO email_schedules (id, expression, recipient, products, created_at)
		 VALUES ($1, $2, $3, $4::jsonb, $5)`,
		id.String(), expression, recipient, productsJSON, createdAt,
	)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
