package view

import (
	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/valueobject"
)

// Summary counts tasks per status and per priority
type Summary struct {
	Total      int
	ByStatus   map[valueobject.Status]int
	ByPriority map[valueobject.Priority]int
}

// Summarize builds the dashboard counters
func Summarize(tasks []entity.Task) Summary {
	s := Summary{
		Total:      len(tasks),
		ByStatus:   make(map[valueobject.Status]int, 3),
		ByPriority: make(map[valueobject.Priority]int, 3),
	}
	for _, st := range valueobject.AllStatuses() {
		s.ByStatus[st] = 0
	}
	for _, p := range valueobject.AllPriorities() {
		s.ByPriority[p] = 0
	}

	for _, t := range tasks {
		s.ByStatus[t.Status]++
		s.ByPriority[t.Priority]++
	}
	return s
}

// CompletionRate is the share of done tasks, 0 for an empty list
func (s Summary) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.ByStatus[valueobject.StatusDone]) / float64(s.Total)
}
