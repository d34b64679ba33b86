package dto

import (
	"fmt"
	"strings"

	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/valueobject"
)

// TaskDTO represents a task data transfer object
type TaskDTO struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Priority    string `json:"priority" yaml:"priority"`
	Category    string `json:"category" yaml:"category"`
	Status      string `json:"status" yaml:"status"`
	StartDate   string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	StartTime   string `json:"start_time" yaml:"start_time"`
	EndTime     string `json:"end_time" yaml:"end_time"`
	CreatedAt   int64  `json:"created_at" yaml:"created_at"`
	UpdatedAt   int64  `json:"updated_at" yaml:"updated_at"`
}

// TaskToDTO converts a Task entity to its DTO
func TaskToDTO(t entity.Task) TaskDTO {
	out := TaskDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority.String(),
		Category:    t.Category.String(),
		Status:      t.Status.String(),
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.StartDate != nil {
		out.StartDate = t.StartDate.String()
	}
	if t.EndDate != nil {
		out.EndDate = t.EndDate.String()
	}
	return out
}

// TasksToDTOs converts a list of tasks
func TasksToDTOs(tasks []entity.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskToDTO(t))
	}
	return out
}

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high"`
	Category    string `json:"category" validate:"required,oneof=work personal study health other"`
	Status      string `json:"status" validate:"omitempty,oneof=todo in-progress done"`
	StartDate   string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

// ToInput converts the request into a domain create input
func (r CreateTaskRequest) ToInput() (entity.CreateTaskInput, error) {
	in := entity.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    valueobject.Priority(strings.ToLower(r.Priority)),
		Category:    valueobject.Category(strings.ToLower(r.Category)),
		Status:      valueobject.Status(r.Status),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}

	var err error
	if in.StartDate, err = parseOptionalDate("startDate", r.StartDate); err != nil {
		return entity.CreateTaskInput{}, err
	}
	if in.EndDate, err = parseOptionalDate("endDate", r.EndDate); err != nil {
		return entity.CreateTaskInput{}, err
	}

	return in.Normalize(), nil
}

// UpdateTaskRequest represents a request to update a task.
// Nil fields are left untouched; an empty date string clears the date.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Category    *string `json:"category,omitempty" validate:"omitempty,oneof=work personal study health other"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=todo in-progress done"`
	StartDate   *string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
}

// ToPatch converts the request into a domain patch
func (r UpdateTaskRequest) ToPatch() (entity.TaskPatch, error) {
	var p entity.TaskPatch

	p.Title = r.Title
	p.Description = r.Description
	p.StartTime = r.StartTime
	p.EndTime = r.EndTime

	if r.Priority != nil {
		pr := valueobject.Priority(strings.ToLower(*r.Priority))
		p.Priority = &pr
	}
	if r.Category != nil {
		c := valueobject.Category(strings.ToLower(*r.Category))
		p.Category = &c
	}
	if r.Status != nil {
		s := valueobject.Status(*r.Status)
		p.Status = &s
	}

	var err error
	if p.StartDate, err = dateUpdate("startDate", r.StartDate); err != nil {
		return entity.TaskPatch{}, err
	}
	if p.EndDate, err = dateUpdate("endDate", r.EndDate); err != nil {
		return entity.TaskPatch{}, err
	}

	return p, nil
}

// MoveTaskRequest represents a drop of a task onto a column or another task
type MoveTaskRequest struct {
	TaskID   string `json:"task_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
}

func parseOptionalDate(field, s string) (*valueobject.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := valueobject.ParseDate(s)
	if err != nil {
		return nil, entity.NewValidationError(field, err.Error(), entity.ErrInvalidDate)
	}
	return &d, nil
}

func dateUpdate(field string, s *string) (*entity.DateUpdate, error) {
	if s == nil {
		return nil, nil
	}
	d, err := parseOptionalDate(field, *s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	if d == nil {
		return entity.ClearDate(), nil
	}
	return entity.SetDate(*d), nil
}
