package session

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired      = errors.New("authentication required")
	ErrEmptyPayload      = errors.New("no suggestion data received")
	ErrMissingIdentifier = errors.New("suggestion identifier missing or invalid")
	ErrBusy              = errors.New("operation already in progress")
)

// BackendError wraps a failure reported by the Backend.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// userMessager is implemented by backend errors that carry a message fit for
// display, such as the server's error text.
type userMessager interface {
	UserMessage() string
}

// displayMessage returns the collaborator's own message when it has one.
func displayMessage(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is the single message an operation surfaces to the user. The zero
// Notice means there is nothing to show.
type Notice struct {
	Level   Level
	Message string
	// Cause is set for soft failures that are not returned as errors.
	Cause error
}

func (n Notice) IsZero() bool { return n.Message == "" }

func success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }

func failure(msg string) Notice { return Notice{Level: LevelError, Message: msg} }
