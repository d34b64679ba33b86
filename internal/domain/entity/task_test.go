package entity

import (
	"errors"
	"strings"
	"testing"
	"time"

	"taskboard/internal/domain/valueobject"
)

func datePtr(y int, m time.Month, d int) *valueobject.Date {
	v := valueobject.NewDate(y, m, d)
	return &v
}

func TestApplyMergesOnlyPresentFields(t *testing.T) {
	task := Task{
		ID:          "t1",
		Title:       "Original",
		Description: "keep me",
		Priority:    valueobject.PriorityLow,
		Status:      valueobject.StatusTodo,
		EndDate:     datePtr(2025, time.March, 15),
		CreatedAt:   100,
		UpdatedAt:   100,
	}

	title := "  Renamed  "
	task.Apply(TaskPatch{Title: &title, EndDate: ClearDate()}, 200)

	if task.Title != "Renamed" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}
	if task.Description != "keep me" {
		t.Errorf("description changed unexpectedly: %q", task.Description)
	}
	if task.EndDate != nil {
		t.Errorf("expected end date cleared, got %v", task.EndDate)
	}
	if task.UpdatedAt != 200 {
		t.Errorf("expected UpdatedAt 200, got %d", task.UpdatedAt)
	}
}

func TestApplyNeverMovesUpdatedAtBack(t *testing.T) {
	task := Task{CreatedAt: 500, UpdatedAt: 800}
	task.Apply(StatusPatch(valueobject.StatusDone), 10)

	if task.UpdatedAt < task.CreatedAt || task.UpdatedAt < 800 {
		t.Errorf("UpdatedAt went backwards: %d", task.UpdatedAt)
	}
	if task.Status != valueobject.StatusDone {
		t.Errorf("expected done, got %s", task.Status)
	}
}

func TestCloneDoesNotShareDates(t *testing.T) {
	task := Task{StartDate: datePtr(2025, time.January, 1)}
	c := task.Clone()
	c.StartDate.Day = 9

	if task.StartDate.Day != 1 {
		t.Error("clone shares the start date pointer")
	}
}

func TestCalendarDateFallsBackToStart(t *testing.T) {
	tests := []struct {
		name   string
		task   Task
		want   string
		wantOK bool
	}{
		{"end wins", Task{StartDate: datePtr(2025, 3, 1), EndDate: datePtr(2025, 3, 15)}, "2025-03-15", true},
		{"start fallback", Task{StartDate: datePtr(2025, 3, 1)}, "2025-03-01", true},
		{"no dates", Task{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := tt.task.CalendarDate()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && d.String() != tt.want {
				t.Errorf("got %s, want %s", d, tt.want)
			}
		})
	}
}

func TestCreateInputValidation(t *testing.T) {
	valid := CreateTaskInput{
		Title:    "Write report",
		Priority: valueobject.PriorityHigh,
		Category: valueobject.CategoryWork,
	}

	tests := []struct {
		name    string
		mutate  func(in *CreateTaskInput)
		wantErr error
	}{
		{"valid", func(in *CreateTaskInput) {}, nil},
		{"blank title", func(in *CreateTaskInput) { in.Title = "   " }, ErrEmptyTaskTitle},
		{"long title", func(in *CreateTaskInput) { in.Title = strings.Repeat("a", 101) }, ErrTaskTitleTooLong},
		{"long description", func(in *CreateTaskInput) { in.Description = strings.Repeat("d", 501) }, ErrDescriptionTooLong},
		{"missing priority", func(in *CreateTaskInput) { in.Priority = "" }, ErrInvalidPriority},
		{"missing category", func(in *CreateTaskInput) { in.Category = "" }, ErrInvalidCategory},
		{"end before start", func(in *CreateTaskInput) {
			in.StartDate = datePtr(2025, 3, 10)
			in.EndDate = datePtr(2025, 3, 9)
		}, ErrEndBeforeStart},
		{"same day", func(in *CreateTaskInput) {
			in.StartDate = datePtr(2025, 3, 10)
			in.EndDate = datePtr(2025, 3, 10)
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Normalize().Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected error to match ErrValidation: %v", err)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	in := CreateTaskInput{Title: "  x  ", Description: " y "}.Normalize()

	if in.Title != "x" || in.Description != "y" {
		t.Errorf("expected trimmed text, got %q / %q", in.Title, in.Description)
	}
	if in.Status != valueobject.StatusTodo {
		t.Errorf("expected default status todo, got %q", in.Status)
	}
	if in.StartTime != DefaultStartTime || in.EndTime != DefaultEndTime {
		t.Errorf("unexpected default times %q-%q", in.StartTime, in.EndTime)
	}
}
