package view

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"taskboard/internal/domain/entity"
)

// Table applies search, the status filter, the priority filter and then a
// stable sort on the selected field
func Table(tasks []entity.Task, state State) []entity.Task {
	result := Search(tasks, state.Query)

	if state.StatusFilter != "" && state.StatusFilter != FilterAll {
		result = filter(result, func(t entity.Task) bool {
			return t.Status.String() == state.StatusFilter
		})
	}

	if state.PriorityFilter != "" && state.PriorityFilter != FilterAll {
		result = filter(result, func(t entity.Task) bool {
			return t.Priority.String() == state.PriorityFilter
		})
	}

	cmp := comparator(state.SortField)
	sign := 1
	if state.SortOrder == Desc {
		sign = -1
	}

	sort.SliceStable(result, func(i, j int) bool {
		return sign*cmp(result[i], result[j]) < 0
	})

	return result
}

func filter(tasks []entity.Task, keep func(entity.Task) bool) []entity.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func comparator(field SortField) func(a, b entity.Task) int {
	switch field {
	case SortTitle:
		coll := collate.New(language.Und)
		return func(a, b entity.Task) int {
			return coll.CompareString(a.Title, b.Title)
		}
	case SortPriority:
		return func(a, b entity.Task) int {
			return a.Priority.Rank() - b.Priority.Rank()
		}
	case SortStatus:
		return func(a, b entity.Task) int {
			return a.Status.Rank() - b.Status.Rank()
		}
	case SortEndDate:
		return func(a, b entity.Task) int {
			return compareInt64(a.EndDateMillis(), b.EndDateMillis())
		}
	default:
		return func(a, b entity.Task) int {
			return compareInt64(a.CreatedAt, b.CreatedAt)
		}
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
