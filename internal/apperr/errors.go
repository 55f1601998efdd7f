package apperr

import "fmt"

// ValidationError means the request input was rejected before any state
// change was applied.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Validation(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced id does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IntegrityError means an operation was blocked by existing references,
// e.g. deleting a supplier that still has products.
type IntegrityError struct {
	Message string
}

func (e *IntegrityError) Error() string {
	return e.Message
}

func Integrity(format string, args ...interface{}) *IntegrityError {
	return &IntegrityError{Message: fmt.Sprintf(format, args...)}
}
