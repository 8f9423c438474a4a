package types

import (
	"errors"
	"fmt"
)

// Sentinel errors used with errors.Is.
var (
	// ErrInvalidRow marks a row that cannot be grouped. Never fatal.
	ErrInvalidRow = errors.New("invalid row")

	// ErrExternalStore marks a failure talking to the data source or the
	// event store. Always fatal for the run.
	ErrExternalStore = errors.New("external store failure")
)

// ReasonInvalidDateOrTime is written next to every row whose date or time
// cannot be turned into a start timestamp.
const ReasonInvalidDateOrTime = "Invalid Date or Time"

// RowValidationError describes a row rejected by the validator.
type RowValidationError struct {
	RowIndex int
	Reason   string
}

// Error implements the error interface
func (e *RowValidationError) Error() string {
	return fmt.Sprintf("row %d: %s", e.RowIndex+1, e.Reason)
}

// Is implements errors.Is support
func (e *RowValidationError) Is(target error) bool {
	return target == ErrInvalidRow
}

// StoreError wraps a failed call to an external collaborator.
type StoreError struct {
	// Op names the failed operation, e.g. "search", "create", "flag".
	Op  string
	Err error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreError) Is(target error) bool {
	return target == ErrExternalStore
}

// NewStoreError wraps err as a StoreError for op. A nil err stays nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
