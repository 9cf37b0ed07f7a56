package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSession indicates no session exists with the given id.
	ErrUnknownSession = errors.New("unknown session")
	// ErrAlreadyCompleted indicates the session was already completed.
	ErrAlreadyCompleted = errors.New("session already completed")
	// ErrStoreUnavailable indicates the shared store could not be opened or written.
	ErrStoreUnavailable = errors.New("shared store unavailable")
	// ErrInvalidDuration indicates a negative or non-finite duration.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrUnknownDevice indicates an unrecognized device type name.
	ErrUnknownDevice = errors.New("unknown device type")
	// ErrUnknownIntensity indicates an unrecognized intensity level name.
	ErrUnknownIntensity = errors.New("unknown intensity level")
)

// StorageError represents errors accessing a store file
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "migrate"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// SessionError represents a rejected session operation
type SessionError struct {
	ID  string
	Op  string // "complete", "stop"
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session %s [%s]: %v", e.Op, e.ID, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// unavailable wraps err as a StorageError that matches ErrStoreUnavailable.
func unavailable(path, op string, err error) error {
	return &StorageError{Path: path, Op: op, Err: fmt.Errorf("%w: %v", ErrStoreUnavailable, err)}
}
