package view

import (
	"strings"

	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/valueobject"
)

// Column is one status lane of the board
type Column struct {
	ID     string
	Status valueobject.Status
	Title  string
	Color  string
	Tasks  []entity.Task
}

// Board is the kanban projection: todo, in-progress, done, in that order
type Board struct {
	Columns []Column
	Query   string
}

// Kanban groups the tasks by status, keeping the list order inside each
// column. When query has non-blank text only matching tasks are kept.
func Kanban(tasks []entity.Task, query string) Board {
	matched := tasks
	if strings.TrimSpace(query) != "" {
		matched = Search(tasks, query)
	}

	statuses := valueobject.AllStatuses()
	board := Board{
		Columns: make([]Column, len(statuses)),
		Query:   query,
	}

	index := make(map[valueobject.Status]int, len(statuses))
	for i, st := range statuses {
		board.Columns[i] = Column{
			ID:     st.String(),
			Status: st,
			Title:  st.Title(),
			Color:  st.Color(),
			Tasks:  []entity.Task{},
		}
		index[st] = i
	}

	for _, t := range matched {
		if i, ok := index[t.Status]; ok {
			board.Columns[i].Tasks = append(board.Columns[i].Tasks, t)
		}
	}

	return board
}

// Column returns the lane for status
func (b Board) Column(status valueobject.Status) (Column, bool) {
	for _, c := range b.Columns {
		if c.Status == status {
			return c, true
		}
	}
	return Column{}, false
}

// Total counts the tasks on the board
func (b Board) Total() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Tasks)
	}
	return n
}
