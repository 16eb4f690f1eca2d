package errs

import "errors"

// Layer-neutral sentinel errors shared by infra adapters
var (
	// Storage errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
	ErrRecordDecodeFailed      = errors.New("record decode failed")

	// Lock errors
	ErrLockUnavailable = errors.New("lock backend unavailable")
)
