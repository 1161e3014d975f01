package submission

import (
	"context"
	"errors"
	"fmt"
)

// SubmissionError represents a failure driving the upload form: a missing
// element, a step timeout, or a submit that was not confirmed.
type SubmissionError struct {
	Step    string
	Message string
	Cause   error
}

func (e *SubmissionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("submission error at %s: %s: %v", e.Step, e.Message, e.Cause)
	}
	return fmt.Sprintf("submission error at %s: %s", e.Step, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the step failed because its deadline passed.
func (e *SubmissionError) Timeout() bool {
	return errors.Is(e.Cause, context.DeadlineExceeded) || errors.Is(e.Cause, ErrNotConfirmed)
}

// ErrNotConfirmed is the cause recorded when no matching response arrived in time.
var ErrNotConfirmed = errors.New("no matching response before timeout")

// ErrElementNotFound is the cause recorded when a required control is absent.
var ErrElementNotFound = errors.New("element not found")
