// Package errs defines the error taxonomy shared across the domain layer.
// All four kinds surface to callers unmodified; retry policy belongs to the
// transport layer.
package errs

import "fmt"

// ValidationError indicates malformed or semantically invalid input, such as
// an empty comment, a self-relationship or a tag outside the controlled
// vocabulary.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a referenced ID does not resolve, or that content
// is hidden from the caller by the approval gate.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for a resource and id.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError indicates a would-be duplicate where uniqueness is a true
// invariant, such as a second edge for the same unordered pair and type.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Conflict builds a ConflictError from a format string.
func Conflict(format string, args ...any) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// StoreError wraps an underlying persistence failure, opaque to callers.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError for the given operation. Returns nil when
// err is nil so call sites can wrap unconditionally.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
