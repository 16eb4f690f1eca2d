//go:build unit || e2e

package mailtest

import (
	"context"
	"sync"

	"stock-notifier/internal/domain/notification"
)

// Recorder is a MailTransport that keeps every message and can be told to fail.
type Recorder struct {
	mu       sync.Mutex
	messages []notification.Message
	failWith error
	// remaining failures; negative fails until Reset
	failLeft int
	calls    int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Send(_ context.Context, msg notification.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failWith != nil && r.failLeft != 0 {
		r.failLeft--
		return r.failWith
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *Recorder) FailWith(err error) {
	r.FailTimes(err, -1)
}

// FailTimes fails the next n sends with err, then delivers again.
func (r *Recorder) FailTimes(err error, n int) {
	r.mu.Lock()
	r.failWith = err
	r.failLeft = n
	r.mu.Unlock()
}

// Calls counts every send attempt, failed ones included.
func (r *Recorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *Recorder) Messages() []notification.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.Message, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.messages = nil
	r.failWith = nil
	r.failLeft = 0
	r.calls = 0
	r.mu.Unlock()
}
