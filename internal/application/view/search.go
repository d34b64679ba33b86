package view

import (
	"strings"

	"golang.org/x/text/cases"

	"taskboard/internal/domain/entity"
)

// Search keeps the tasks whose title or description contains query,
// ignoring case. An empty query keeps everything.
func Search(tasks []entity.Task, query string) []entity.Task {
	if query == "" {
		return append([]entity.Task(nil), tasks...)
	}

	fold := cases.Fold()
	q := fold.String(query)

	out := make([]entity.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(fold.String(t.Title), q) || strings.Contains(fold.String(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}
