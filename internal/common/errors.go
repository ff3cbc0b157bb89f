// Package common defines the error kinds and shared constants used across the
// Q&A service layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound         = errors.New("not found")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrStore            = errors.New("store error")

	// Ownership check failed: the acting account does not own the resource.
	ErrUnauthorized = errors.New("unauthorized")

	// Any token validation failure. Deliberately carries no detail.
	ErrCannotDecryptToken = errors.New("cannot decrypt token")

	// Credential errors.
	ErrWrongPassword = errors.New("wrong password")
	ErrHashing       = errors.New("password hashing error")

	// Request input a handler cannot act on (empty title, negative offset).
	ErrInvalidArgument = errors.New("invalid argument")

	// Startup errors.
	ErrMissingSecretKey = errors.New("secret key is not set")
)

// StoreError wraps a backend specific failure (connection loss, constraint
// violation, scan error) together with the operation that produced it.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError returns a StoreError for op caused by err.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("db error: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is reports every StoreError as ErrStore.
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}
