// Package dragdrop turns a drop gesture into a status change.
//
// Column identifiers are the status strings (todo, in-progress, done). A
// drop onto a card targets that card's column; the position inside a column
// is never persisted.
package dragdrop

import (
	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/valueobject"
)

// Intent is a status change produced by a drop
type Intent struct {
	TaskID string
	From   valueobject.Status
	To     valueobject.Status
	Patch  entity.TaskPatch
}

// ColumnID returns the drop target identifier of a status column
func ColumnID(status valueobject.Status) string {
	return status.String()
}

// ResolveTarget maps a drop target to a status. The target is first matched
// against the column ids, then against the ids of tasks.
func ResolveTarget(tasks []entity.Task, targetID string) (valueobject.Status, bool) {
	if targetID == "" {
		return "", false
	}

	if status := valueobject.Status(targetID); status.IsValid() {
		return status, true
	}

	for _, t := range tasks {
		if t.ID == targetID {
			return t.Status, true
		}
	}
	return "", false
}

// Resolve decides whether dropping draggedID onto targetID changes anything.
// It returns false for cancelled drops, unknown tasks and same-column drops.
func Resolve(tasks []entity.Task, draggedID, targetID string) (Intent, bool) {
	var dragged *entity.Task
	for i := range tasks {
		if tasks[i].ID == draggedID {
			dragged = &tasks[i]
			break
		}
	}
	if dragged == nil {
		return Intent{}, false
	}

	to, ok := ResolveTarget(tasks, targetID)
	if !ok || to == dragged.Status {
		return Intent{}, false
	}

	return Intent{
		TaskID: dragged.ID,
		From:   dragged.Status,
		To:     to,
		Patch:  entity.StatusPatch(to),
	}, true
}
