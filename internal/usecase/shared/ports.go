package shared

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/shared/ports.go -package=sharedmock

import (
	"context"
	"errors"
	"time"

	"stock-notifier/internal/domain/notification"
	"stock-notifier/internal/domain/schedule"

	"github.com/google/uuid"
)

// ErrRecordNotFound is matched by store errors for missing rows
var ErrRecordNotFound = errors.New("record not found")

// MailTransport delivers one rendered message. Implementations must not retry.
type MailTransport interface {
	Send(ctx context.Context, msg notification.Message) error
}

type ScheduleStore interface {
	Save(ctx context.Context, rec ScheduleRecord) error
	// SaveRun persists the bookkeeping of the latest firing
	SaveRun(ctx context.Context, id uuid.UUID, run schedule.Run, fireCount, failureCount int) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]ScheduleRecord, error)
}

// FireLock prevents two instances from firing the same job for the same tick.
type FireLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
