package usecase

import (
	"errors"

	"stock-notifier/internal/domain/schedule"
	"stock-notifier/internal/pkg/errs"
)

var (
	ErrInvalidScheduleExpression = schedule.ErrInvalidScheduleExpression
	ErrEmptyRecipient            = schedule.ErrEmptyRecipient
	ErrJobAlreadyFiring          = schedule.ErrJobAlreadyFiring

	ErrMailTransport    = errs.New("mail transport failed")
	ErrJobNotFound      = errs.New("schedule job not found")
	ErrFiringLockHeld   = errs.New("firing lock already claimed for this minute")
	ErrSchedulerStopped = errs.New("scheduler stopped")
)

// MailTransportError is returned when the outbound transport rejects or fails a send.
type MailTransportError struct {
	Recipient string
	Err       error
}

func (e *MailTransportError) Error() string {
	return "mail transport: send to " + e.Recipient + ": " + e.Err.Error()
}

func (e *MailTransportError) Unwrap() error {
	return e.Err
}

func (e *MailTransportError) Is(target error) bool {
	return target == ErrMailTransport
}

func IsMailTransportError(err error) bool {
	var e *MailTransportError
	return errors.As(err, &e)
}
