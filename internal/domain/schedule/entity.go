package schedule

import (
	"strings"
	"time"

	"stock-notifier/internal/domain/product"

	"github.com/google/uuid"
)

// Job is a recurring out-of-stock notification. The product list is the snapshot
// captured at registration and is never re-queried.
type Job struct {
	id           uuid.UUID
	trigger      Trigger
	recipient    string
	products     []product.Snapshot
	state        State
	createdAt    time.Time
	nextFireAt   time.Time
	lastRun      *Run
	fireCount    int
	failureCount int
}

func NewJob(id uuid.UUID, expression, recipient string, products []product.Snapshot, now time.Time) (*Job, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, ErrEmptyRecipient
	}

	trigger, err := ParseExpression(expression)
	if err != nil {
		return nil, err
	}

	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Job{
		id:         id,
		trigger:    trigger,
		recipient:  recipient,
		products:   copyProducts(products),
		state:      StateScheduled,
		createdAt:  now,
		nextFireAt: trigger.Next(now),
	}, nil
}

// ReconstructJob rebuilds a stored job; the expression is re-parsed so corrupt rows surface as errors.
func ReconstructJob(
	id uuid.UUID,
	expression, recipient string,
	products []product.Snapshot,
	createdAt time.Time,
	lastRun *Run,
	fireCount, failureCount int,
	now time.Time,
) (*Job, error) {
	job, err := NewJob(id, expression, recipient, products, createdAt)
	if err != nil {
		return nil, err
	}
	job.lastRun = lastRun
	job.fireCount = fireCount
	job.failureCount = failureCount
	job.nextFireAt = job.trigger.Next(now)
	return job, nil
}

func (j *Job) ID() uuid.UUID         { return j.id }
func (j *Job) Expression() string    { return j.trigger.Expression() }
func (j *Job) Trigger() Trigger      { return j.trigger }
func (j *Job) Recipient() string     { return j.recipient }
func (j *Job) State() State          { return j.state }
func (j *Job) CreatedAt() time.Time  { return j.createdAt }
func (j *Job) NextFireAt() time.Time { return j.nextFireAt }
func (j *Job) FireCount() int        { return j.fireCount }
func (j *Job) FailureCount() int     { return j.failureCount }

func (j *Job) Products() []product.Snapshot {
	return copyProducts(j.products)
}

func (j *Job) LastRun() *Run {
	if j.lastRun == nil {
		return nil
	}
	r := *j.lastRun
	return &r
}

func (j *Job) Active() bool {
	return j.state != StateCancelled
}

func (j *Job) BeginFiring() error {
	switch j.state {
	case StateCancelled:
		return ErrJobCancelled
	case StateFiring:
		return ErrJobAlreadyFiring
	}
	j.state = StateFiring
	return nil
}

// CompleteFiring records the run and returns the job to scheduled unless it was cancelled mid-flight.
func (j *Job) CompleteFiring(run Run) {
	j.lastRun = &run
	j.fireCount++
	if run.Outcome == OutcomeFailed {
		j.failureCount++
	}
	if j.state == StateCancelled {
		return
	}
	j.state = StateScheduled
	j.nextFireAt = j.trigger.Next(run.FiredAt)
}

// AbortFiring returns a firing job to scheduled without recording a run.
func (j *Job) AbortFiring() {
	if j.state == StateFiring {
		j.state = StateScheduled
	}
}

func (j *Job) Cancel() error {
	if j.state == StateCancelled {
		return ErrJobCancelled
	}
	j.state = StateCancelled
	j.nextFireAt = time.Time{}
	return nil
}

// Reschedule recomputes the next fire time from now.
func (j *Job) Reschedule(now time.Time) {
	if j.state == StateCancelled {
		return
	}
	j.nextFireAt = j.trigger.Next(now)
}

func copyProducts(in []product.Snapshot) []product.Snapshot {
	out := make([]product.Snapshot, len(in))
	copy(out, in)
	return out
}
