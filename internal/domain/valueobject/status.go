package valueobject

import (
	"fmt"
	"strings"
)

// Status is the workflow state of a task. It doubles as the kanban column id.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

var allStatuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// AllStatuses returns the statuses in board column order
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus converts a string to a Status
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo", "to-do", "to do":
		return StatusTodo, nil
	case "in-progress", "in_progress", "in progress", "inprogress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	default:
		return "", fmt.Errorf("invalid status %q: must be one of todo, in-progress, done", s)
	}
}

// IsValid reports whether s is one of the three workflow states
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// String returns the wire form of the status
func (s Status) String() string {
	return string(s)
}

// Rank orders statuses by workflow position: todo(1) < in-progress(2) < done(3)
func (s Status) Rank() int {
	switch s {
	case StatusTodo:
		return 1
	case StatusInProgress:
		return 2
	case StatusDone:
		return 3
	}
	return 0
}

// Title returns the column heading for the status
func (s Status) Title() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Color returns the column accent color
func (s Status) Color() string {
	switch s {
	case StatusTodo:
		return "#3B82F6"
	case StatusInProgress:
		return "#F59E0B"
	case StatusDone:
		return "#22C55E"
	}
	return "#999999"
}

// Next returns the status of the following column, if any
func (s Status) Next() (Status, bool) {
	for i, st := range allStatuses {
		if st == s && i+1 < len(allStatuses) {
			return allStatuses[i+1], true
		}
	}
	return "", false
}

// Previous returns the status of the preceding column, if any
func (s Status) Previous() (Status, bool) {
	for i, st := range allStatuses {
		if st == s && i > 0 {
			return allStatuses[i-1], true
		}
	}
	return "", false
}
