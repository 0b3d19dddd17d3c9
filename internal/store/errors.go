// Package store persists per-identity telemetry state.
package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by GetOne when no entry exists for the key.
var ErrNotFound = errors.New("identity not found")

// PersistError reports a failed durable write. It distinguishes "nothing
// was stored" from "fully stored" for the ingestion caller: when Upsert
// returns a PersistError, no partial state is visible under the key.
type PersistError struct {
	Op  string // Which write failed (raw, record, aggregate, table)
	Key string // Affected identity key
	Err error
}

// Error implements the error interface.
func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s for %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistError) Unwrap() error {
	return e.Err
}
