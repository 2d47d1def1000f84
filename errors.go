package docstore

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned by Insert when a document with the same
	// identity is already stored.
	ErrDuplicateKey = errors.New("docstore: duplicate key")

	// ErrCorruption marks a record or index entry that failed verification.
	// Scan results carrying it are the signal the stress harness looks for.
	ErrCorruption = errors.New("docstore: corruption")

	// ErrIndexNotFound is returned when a hint names an index that does not exist.
	ErrIndexNotFound = errors.New("docstore: index not found")

	// ErrInvalidIndex is returned by CreateIndex for an unusable spec.
	ErrInvalidIndex = errors.New("docstore: invalid index")

	// ErrInvalidDocument is returned for documents that cannot be stored.
	ErrInvalidDocument = errors.New("docstore: invalid document")

	// ErrInvalidOptions is returned by Open for unusable options.
	ErrInvalidOptions = errors.New("docstore: invalid options")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("docstore: store closed")
)

// StoreError records a failed collection operation.
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("docstore: %s on %q: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func corruptionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruption, fmt.Sprintf(format, args...))
}
