// Package extraction turns a company page into a CompanyProfile and its on-disk artifact bundle.
package extraction

import "fmt"

// ParseError represents markup that lacks the structure a company page must have.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// PersistError represents a failure writing the artifact bundle.
type PersistError struct {
	Path    string
	Message string
	Cause   error
}

func (e *PersistError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("persist error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("persist error for %s: %s", e.Path, e.Message)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}
