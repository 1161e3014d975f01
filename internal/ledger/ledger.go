// Package ledger keeps the ordered, append-only set of company pages that have
// already been submitted, so repeated runs skip them.
package ledger

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// FileName is the ledger file kept at the workspace root.
const FileName = "uploaded.json"

//go:embed ledger.schema.json
var schema string

var schemaLoader = gojsonschema.NewStringLoader(schema)

// Ledger is an in-memory copy of the persisted key sequence.
// It assumes a single process; there is no locking across processes.
type Ledger struct {
	path string
	// keys is the sequence as persisted, including any duplicates the file
	// already held; index answers lookups.
	keys  []string
	index map[string]struct{}
}

// New returns an empty ledger bound to path. Call Load to read the file.
func New(path string) *Ledger {
	return &Ledger{
		path:  path,
		index: make(map[string]struct{}),
	}
}

// Path returns the file the ledger persists to.
func (l *Ledger) Path() string {
	return l.path
}

// Load replaces the in-memory keys with the file's contents. A missing file
// yields an empty ledger and a nil error. An unreadable or invalid file also
// yields an empty ledger; the returned *CorruptionError is informational only
// and the ledger remains usable.
func (l *Ledger) Load() error {
	l.keys = nil
	l.index = make(map[string]struct{})

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &CorruptionError{Path: l.path, Message: "failed to read", Cause: err}
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &CorruptionError{Path: l.path, Message: "invalid JSON", Cause: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return &CorruptionError{Path: l.path, Message: "schema mismatch: " + strings.Join(msgs, "; ")}
	}

	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return &CorruptionError{Path: l.path, Message: "invalid JSON", Cause: err}
	}

	l.keys = keys
	for _, key := range keys {
		l.index[key] = struct{}{}
	}
	return nil
}

// Contains reports whether key has been recorded (exact match).
func (l *Ledger) Contains(key string) bool {
	_, ok := l.index[key]
	return ok
}

// Record appends key and persists the full sequence, overwriting the file.
// Recording a key that is already present is a no-op.
func (l *Ledger) Record(key string) error {
	if l.Contains(key) {
		return nil
	}
	l.add(key)
	if err := l.persist(); err != nil {
		l.keys = l.keys[:len(l.keys)-1]
		delete(l.index, key)
		return err
	}
	return nil
}

// Keys returns a copy of the persisted sequence in insertion order. Duplicates
// loaded from the file are kept so rewriting it never drops history.
func (l *Ledger) Keys() []string {
	out := make([]string, len(l.keys))
	copy(out, l.keys)
	return out
}

// Len returns the number of persisted entries.
func (l *Ledger) Len() int {
	return len(l.keys)
}

func (l *Ledger) add(key string) {
	if l.Contains(key) {
		return
	}
	l.keys = append(l.keys, key)
	l.index[key] = struct{}{}
}

func (l *Ledger) persist() error {
	keys := l.keys
	if keys == nil {
		keys = []string{}
	}
	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return &PersistError{Path: l.path, Cause: fmt.Errorf("marshal: %w", err)}
	}

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &PersistError{Path: l.path, Cause: err}
		}
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return &PersistError{Path: l.path, Cause: err}
	}
	return nil
}

// KeyFromURL derives the ledger key for a source URL: the text after its last "/".
func KeyFromURL(sourceURL string) string {
	return sourceURL[strings.LastIndex(sourceURL, "/")+1:]
}
