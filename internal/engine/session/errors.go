package session

import (
	"errors"
	"fmt"
)

// Kind categorizes errors surfaced to the user.
type Kind int

const (
	// Unknown represents an unclassified error.
	Unknown Kind = iota
	// EmptyInput means nothing was entered before submitting.
	EmptyInput
	// InvalidURL means the normalized input does not parse as a URL.
	InvalidURL
	// EncodingFailure means the encoder rejected the input or failed.
	EncodingFailure
)

const (
	MsgEmptyInput      = "Please enter a URL"
	MsgInvalidURL      = "Please enter a valid URL (e.g., example.com or https://example.com)"
	MsgEncodingFailure = "Failed to generate QR code. Please try again."
)

func (k Kind) String() string {
	switch k {
	case EmptyInput:
		return "empty_input"
	case InvalidURL:
		return "invalid_url"
	case EncodingFailure:
		return "encoding_failure"
	default:
		return "unknown"
	}
}

// ErrInFlight is returned when an action is attempted while a generation is
// still running.
var ErrInFlight = errors.New("session: generation already in progress")

// Error carries a category, the user-facing message, and the original cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, cause error) *Error {
	var msg string
	switch kind {
	case EmptyInput:
		msg = MsgEmptyInput
	case InvalidURL:
		msg = MsgInvalidURL
	default:
		msg = MsgEncodingFailure
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf returns the Kind of err, or Unknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
