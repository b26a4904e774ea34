package Lifecycle

import (
	"errors"
	"fmt"

	"Agenda/Models"
)

// ErrNotLoggedIn is returned whenever an operation runs without a resolved
// acting user.
var ErrNotLoggedIn = errors.New("not logged in")

// ValidationError carries a per-field message map for the UI form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Fields)
}

// AuthorizationError means the acting user is authenticated but lacks the
// role an operation requires. Distinct from ErrNotLoggedIn.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// StateError means the operation is not legal from the task's current status.
type StateError struct {
	Op     string
	Status Models.TaskStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s task in status %s", e.Op, e.Status)
}

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// PersistenceError wraps a store failure. The boundary logs the cause and
// reports a generic message; the wrapped error never reaches the client.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
