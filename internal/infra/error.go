package infra

import (
	"errors"
	"log/slog"

	"stock-notifier/internal/pkg/errs"
	"stock-notifier/internal/usecase/shared"
)

type RepositoryErrorKind string

const (
	KindNotFound      RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure     RepositoryErrorKind = "DB_FAILURE"
	KindDecodeFailure RepositoryErrorKind = "DECODE_FAILURE"
	KindLockFailure   RepositoryErrorKind = "LOCK_FAILURE"
)

// kindMarkers lets callers match a kind with errs.Is without importing infra.
var kindMarkers = map[RepositoryErrorKind]error{
	KindDBFailure:     errs.ErrDatabaseOperationFailed,
	KindDecodeFailure: errs.ErrRecordDecodeFailed,
	KindLockFailure:   errs.ErrLockUnavailable,
}

type RepositoryError struct {
	Kind RepositoryErrorKind
	// Store names the backend that failed, e.g. "postgres" or "redis".
	Store string
	msg   string
	err   error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// Is lets callers match NOT_FOUND against shared.ErrRecordNotFound.
func (e RepositoryError) Is(target error) bool {
	return e.Kind == KindNotFound && target == shared.ErrRecordNotFound
}

// ErrorReporter builds RepositoryErrors for one backend and logs each one
// where it is created.
type ErrorReporter struct {
	store  string
	logger *slog.Logger
}

func NewErrorReporter(store string, logger *slog.Logger) ErrorReporter {
	return ErrorReporter{store: store, logger: logger.With(slog.String("store", store))}
}

// Wrap classifies err under kind. A nil err is allowed for NOT_FOUND.
// Missing rows are expected on cancel and are logged at debug only.
func (r ErrorReporter) Wrap(kind RepositoryErrorKind, msg string, err error) error {
	logArgs := []any{slog.String("kind", string(kind))}
	if err != nil {
		logArgs = append(logArgs, slog.String("error", err.Error()))
	}
	if kind == KindNotFound {
		r.logger.Debug("Repository error: "+msg, logArgs...)
	} else {
		r.logger.Error("Repository error: "+msg, logArgs...)
	}

	if err != nil {
		if marker, ok := kindMarkers[kind]; ok {
			err = errs.Mark(err, marker)
		}
		err = errs.Wrap(err, msg)
	}
	return RepositoryError{Kind: kind, Store: r.store, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
