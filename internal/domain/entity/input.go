package entity

import (
	"strings"
	"unicode/utf8"

	"taskboard/internal/domain/valueobject"
)

// CreateTaskInput holds the fields of a new task submission
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    valueobject.Priority
	Category    valueobject.Category
	Status      valueobject.Status
	StartDate   *valueobject.Date
	EndDate     *valueobject.Date
	StartTime   string
	EndTime     string
}

// Normalize trims text fields and fills defaults for status and times
func (in CreateTaskInput) Normalize() CreateTaskInput {
	out := in
	out.Title = strings.TrimSpace(in.Title)
	out.Description = strings.TrimSpace(in.Description)
	if out.Status == "" {
		out.Status = valueobject.StatusTodo
	}
	if strings.TrimSpace(out.StartTime) == "" {
		out.StartTime = DefaultStartTime
	}
	if strings.TrimSpace(out.EndTime) == "" {
		out.EndTime = DefaultEndTime
	}
	return out
}

// Validate checks a normalized input
func (in CreateTaskInput) Validate() error {
	if in.Title == "" {
		return NewValidationError("title", "title is required", ErrEmptyTaskTitle)
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return NewValidationError("title", "title must be at most 100 characters", ErrTaskTitleTooLong)
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return NewValidationError("description", "description must be at most 500 characters", ErrDescriptionTooLong)
	}
	if !in.Priority.IsValid() {
		return NewValidationError("priority", "priority is required", ErrInvalidPriority)
	}
	if !in.Category.IsValid() {
		return NewValidationError("category", "category is required", ErrInvalidCategory)
	}
	if !in.Status.IsValid() {
		return NewValidationError("status", "unknown status", ErrInvalidStatus)
	}
	return validateSchedule(in.StartDate, in.EndDate)
}
