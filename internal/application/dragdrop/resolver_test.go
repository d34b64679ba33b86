package dragdrop

import (
	"testing"

	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/valueobject"
)

func board() []entity.Task {
	return []entity.Task{
		{ID: "t1", Status: valueobject.StatusTodo},
		{ID: "t2", Status: valueobject.StatusTodo},
		{ID: "p1", Status: valueobject.StatusInProgress},
		{ID: "d1", Status: valueobject.StatusDone},
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		dragged string
		target  string
		wantOK  bool
		wantTo  valueobject.Status
	}{
		{"onto column", "t1", "in-progress", true, valueobject.StatusInProgress},
		{"onto card in other column", "t1", "d1", true, valueobject.StatusDone},
		{"onto own column", "t1", "todo", false, ""},
		{"onto card in own column", "t1", "t2", false, ""},
		{"onto itself", "p1", "p1", false, ""},
		{"cancelled", "t1", "", false, ""},
		{"outside any zone", "t1", "nowhere", false, ""},
		{"unknown dragged task", "ghost", "done", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, ok := Resolve(board(), tt.dragged, tt.target)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if intent.To != tt.wantTo || intent.TaskID != tt.dragged {
				t.Errorf("unexpected intent %+v", intent)
			}
		})
	}
}

func TestDropOnOwnColumnIssuesNothing(t *testing.T) {
	tasks := board()
	for _, task := range tasks {
		if _, ok := Resolve(tasks, task.ID, ColumnID(task.Status)); ok {
			t.Errorf("dropping %s onto its own column produced an intent", task.ID)
		}
	}
}

func TestDropOnDoneCardCarriesOnlyStatus(t *testing.T) {
	intent, ok := Resolve(board(), "t1", "d1")
	if !ok {
		t.Fatal("expected an intent")
	}

	p := intent.Patch
	if p.Status == nil || *p.Status != valueobject.StatusDone {
		t.Fatalf("expected status done, got %+v", p.Status)
	}

	p.Status = nil
	if !p.IsEmpty() {
		t.Errorf("intent patch carries more than the status: %+v", intent.Patch)
	}
	if intent.From != valueobject.StatusTodo {
		t.Errorf("expected from todo, got %s", intent.From)
	}
}
