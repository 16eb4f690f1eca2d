package lock

import (
	"context"
	"time"
)

// NopLock always grants the lock. Only safe for single-instance deployments.
type NopLock struct{}

func NewNopLock() *NopLock { return &NopLock{} }

func (NopLock) Acquire(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}
