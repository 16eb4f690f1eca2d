package schedule

import (
	"errors"
	"time"
)

var (
	ErrInvalidScheduleExpression = errors.New("invalid schedule expression")
	ErrEmptyRecipient            = errors.New("recipient cannot be empty")
	ErrJobCancelled              = errors.New("schedule job is cancelled")
	ErrJobAlreadyFiring          = errors.New("schedule job is already firing")
)

type State string

const (
	StateScheduled State = "scheduled"
	StateFiring    State = "firing"
	StateCancelled State = "cancelled"
)

type Outcome string

const (
	OutcomeSent          Outcome = "sent"
	OutcomeNothingToSend Outcome = "nothing_to_send"
	OutcomeFailed        Outcome = "failed"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSent, OutcomeNothingToSend, OutcomeFailed:
		return true
	}
	return false
}

// Run is the recorded result of one firing.
type Run struct {
	FiredAt time.Time
	Outcome Outcome
	Error   string
}
