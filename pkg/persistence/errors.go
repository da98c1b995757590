// Package persistence provides standardized error types for storage operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrAgentNotFound indicates no agent row exists for the given role.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrContentNotFound indicates a content item was not found by id.
	ErrContentNotFound = errors.New("content item not found")

	// ErrWorkflowNotFound indicates an approval workflow record was not found by id.
	ErrWorkflowNotFound = errors.New("approval workflow not found")

	// ErrProgramNotFound indicates an affiliate program row was not found by id.
	ErrProgramNotFound = errors.New("program not found")
)

// StoreError wraps storage errors with operation context.
type StoreError struct {
	Op    string // Operation being performed (e.g., "GetByID", "Append")
	Table string // Logical table the operation targeted
	ID    string // Row id if applicable
	Err   error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s on %s failed for %s: %v", e.Op, e.Table, e.ID, e.Err)
	}

	return fmt.Sprintf("%s on %s failed: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewStoreError creates a new store error with context.
func NewStoreError(op, table, id string, err error) *StoreError {
	return &StoreError{
		Op:    op,
		Table: table,
		ID:    id,
		Err:   err,
	}
}

// IsStoreError checks if an error is a storage error with operation context.
func IsStoreError(err error) bool {
	var storeErr *StoreError

	return errors.As(err, &storeErr)
}

// IsAgentNotFound checks if an error indicates a missing agent row.
func IsAgentNotFound(err error) bool {
	return errors.Is(err, ErrAgentNotFound)
}

// IsContentNotFound checks if an error indicates a missing content item.
func IsContentNotFound(err error) bool {
	return errors.Is(err, ErrContentNotFound)
}

// IsWorkflowNotFound checks if an error indicates a missing workflow record.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsProgramNotFound checks if an error indicates a missing program row.
func IsProgramNotFound(err error) bool {
	return errors.Is(err, ErrProgramNotFound)
}
