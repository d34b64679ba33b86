package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"taskboard/internal/domain/entity"
)

// ValidationService checks task submissions before they reach the store
type ValidationService struct {
	validate *validator.Validate
}

// NewValidationService creates a new ValidationService
func NewValidationService() *ValidationService {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &ValidationService{validate: v}
}

// ValidateStruct runs the validate tags of a request struct and converts the
// first failure into an entity.ValidationError
func (s *ValidationService) ValidateStruct(req interface{}) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	fe := fieldErrs[0]
	return entity.NewValidationError(fe.Field(), fieldMessage(fe), fieldCause(fe))
}

// ValidateCreate checks a create input after normalization
func (s *ValidationService) ValidateCreate(in entity.CreateTaskInput) error {
	return in.Normalize().Validate()
}

// ValidatePatch checks the task that would result from applying patch to current
func (s *ValidationService) ValidatePatch(current entity.Task, patch entity.TaskPatch) error {
	if patch.IsEmpty() {
		return entity.NewValidationError("", "nothing to update", entity.ErrValidation)
	}

	merged := current.Clone()
	merged.Apply(patch, merged.UpdatedAt)

	in := entity.CreateTaskInput{
		Title:       merged.Title,
		Description: merged.Description,
		Priority:    merged.Priority,
		Category:    merged.Category,
		Status:      merged.Status,
		StartDate:   merged.StartDate,
		EndDate:     merged.EndDate,
		StartTime:   merged.StartTime,
		EndTime:     merged.EndTime,
	}
	return in.Validate()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD form", fe.Field())
	}
	return fmt.Sprintf("%s failed the %s check", fe.Field(), fe.Tag())
}

func fieldCause(fe validator.FieldError) error {
	switch fe.Field() {
	case "title":
		if fe.Tag() == "max" {
			return entity.ErrTaskTitleTooLong
		}
		return entity.ErrEmptyTaskTitle
	case "description":
		return entity.ErrDescriptionTooLong
	case "priority":
		return entity.ErrInvalidPriority
	case "category":
		return entity.ErrInvalidCategory
	case "status":
		return entity.ErrInvalidStatus
	case "startDate", "endDate":
		return entity.ErrInvalidDate
	}
	return entity.ErrValidation
}
