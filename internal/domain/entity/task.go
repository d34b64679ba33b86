package entity

import (
	"strings"

	"taskboard/internal/domain/valueobject"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	DefaultStartTime     = "09:00"
	DefaultEndTime       = "18:00"
)

// Task represents one work item owned by a single user
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Priority    valueobject.Priority
	Category    valueobject.Category
	Status      valueobject.Status
	StartDate   *valueobject.Date
	EndDate     *valueobject.Date
	StartTime   string
	EndTime     string
	CreatedAt   int64
	UpdatedAt   int64
}

// Clone returns a copy that shares no pointers with t
func (t Task) Clone() Task {
	c := t
	if t.StartDate != nil {
		d := *t.StartDate
		c.StartDate = &d
	}
	if t.EndDate != nil {
		d := *t.EndDate
		c.EndDate = &d
	}
	return c
}

// CalendarDate is the day the task is shown on: its end date, else its start date
func (t Task) CalendarDate() (valueobject.Date, bool) {
	if t.EndDate != nil {
		return *t.EndDate, true
	}
	if t.StartDate != nil {
		return *t.StartDate, true
	}
	return valueobject.Date{}, false
}

// EndDateMillis returns the end date as epoch milliseconds, 0 when absent
func (t Task) EndDateMillis() int64 {
	if t.EndDate == nil {
		return 0
	}
	return t.EndDate.UnixMilli()
}

// Apply merges the fields present in p and stamps UpdatedAt.
// UpdatedAt never drops below CreatedAt.
func (t *Task) Apply(p TaskPatch, now int64) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.StartDate != nil {
		t.StartDate = p.StartDate.value()
	}
	if p.EndDate != nil {
		t.EndDate = p.EndDate.value()
	}
	if p.StartTime != nil {
		t.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		t.EndTime = *p.EndTime
	}

	if now < t.CreatedAt {
		now = t.CreatedAt
	}
	if now < t.UpdatedAt {
		now = t.UpdatedAt
	}
	t.UpdatedAt = now
}

// ValidateSchedule checks that the end date does not precede the start date
func (t Task) ValidateSchedule() error {
	return validateSchedule(t.StartDate, t.EndDate)
}

func validateSchedule(start, end *valueobject.Date) error {
	if start != nil && end != nil && end.Before(*start) {
		return NewValidationError("endDate", "end date cannot precede start date", ErrEndBeforeStart)
	}
	return nil
}
