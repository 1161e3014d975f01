package ledger

import "fmt"

// CorruptionError reports a ledger file that could not be read or did not
// match the ledger schema. Load recovers from it by starting empty.
type CorruptionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *CorruptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ledger %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("ledger %s: %s", e.Path, e.Message)
}

func (e *CorruptionError) Unwrap() error {
	return e.Cause
}

// PersistError reports a failure writing the ledger file.
type PersistError struct {
	Path  string
	Cause error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist ledger %s: %v", e.Path, e.Cause)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}
