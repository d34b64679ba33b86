package entity

import (
	"errors"
	"fmt"
)

var (
	// Task errors
	ErrTaskNotFound       = errors.New("task not found")
	ErrEmptyTaskTitle     = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong   = errors.New("task title exceeds 100 characters")
	ErrDescriptionTooLong = errors.New("task description exceeds 500 characters")

	// Identity errors
	ErrNotAuthenticated  = errors.New("login required")
	ErrMissingIdentifier = errors.New("owner id and task id are required")

	// Validation errors
	ErrValidation      = errors.New("validation failed")
	ErrInvalidPriority = errors.New("invalid priority value")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidCategory = errors.New("invalid category value")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEndBeforeStart  = errors.New("end date cannot precede start date")
)

// ValidationError reports a rejected field of a task submission.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field
func NewValidationError(field, message string, cause error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: cause}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
