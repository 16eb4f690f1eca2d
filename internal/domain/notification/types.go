package notification

import "errors"

var (
	ErrNoProducts     = errors.New("message requires at least one product")
	ErrEmptyRecipient = errors.New("message recipient cannot be empty")
)

// Result distinguishes a delivered message from a no-op.
type Result string

const (
	ResultSent          Result = "sent"
	ResultNothingToSend Result = "nothing_to_send"
)
