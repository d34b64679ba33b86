package view

import (
	"fmt"
	"strings"
	"time"

	"taskboard/internal/domain/valueobject"
)

// FilterAll disables a status or priority filter
const FilterAll = "all"

// SortField selects the table sort key
type SortField string

const (
	SortTitle     SortField = "title"
	SortPriority  SortField = "priority"
	SortStatus    SortField = "status"
	SortEndDate   SortField = "endDate"
	SortCreatedAt SortField = "createdAt"
)

var sortFields = []SortField{SortTitle, SortPriority, SortStatus, SortEndDate, SortCreatedAt}

// ParseSortField accepts the field names and a few lenient aliases
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return SortTitle, nil
	case "priority":
		return SortPriority, nil
	case "status":
		return SortStatus, nil
	case "enddate", "end-date", "end_date", "due":
		return SortEndDate, nil
	case "createdat", "created-at", "created_at", "created":
		return SortCreatedAt, nil
	}
	return "", fmt.Errorf("invalid sort field %q: must be one of title, priority, status, endDate, createdAt", s)
}

// SortOrder is the direction of the table sort
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSortOrder converts a string to a SortOrder
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	}
	return "", fmt.Errorf("invalid sort order %q: must be asc or desc", s)
}

// State is the ephemeral view state owned by the presentation layer
type State struct {
	Query          string
	StatusFilter   string
	PriorityFilter string
	SortField      SortField
	SortOrder      SortOrder
	Month          valueobject.Date
}

// DefaultState lists everything, newest first, with the calendar on today's month
func DefaultState(today valueobject.Date) State {
	return State{
		StatusFilter:   FilterAll,
		PriorityFilter: FilterAll,
		SortField:      SortCreatedAt,
		SortOrder:      Desc,
		Month:          FirstOfMonth(today),
	}
}

// ToggleSort flips the order when field is already selected, otherwise
// selects field in ascending order
func (s *State) ToggleSort(field SortField) {
	if s.SortField == field {
		s.FlipOrder()
		return
	}
	s.SortField = field
	s.SortOrder = Asc
}

// FlipOrder reverses the sort order
func (s *State) FlipOrder() {
	if s.SortOrder == Asc {
		s.SortOrder = Desc
	} else {
		s.SortOrder = Asc
	}
}

// CycleSortField selects the next sort field, keeping the order
func (s *State) CycleSortField() {
	s.SortField = sortFields[(indexOf(sortFields, s.SortField)+1)%len(sortFields)]
}

// CycleStatusFilter steps through all, todo, in-progress, done
func (s *State) CycleStatusFilter() {
	options := []string{FilterAll}
	for _, st := range valueobject.AllStatuses() {
		options = append(options, st.String())
	}
	s.StatusFilter = options[(indexOf(options, s.StatusFilter)+1)%len(options)]
}

// CyclePriorityFilter steps through all, high, medium, low
func (s *State) CyclePriorityFilter() {
	options := []string{FilterAll}
	for _, p := range valueobject.AllPriorities() {
		options = append(options, p.String())
	}
	s.PriorityFilter = options[(indexOf(options, s.PriorityFilter)+1)%len(options)]
}

// NextMonth moves the calendar anchor forward one month
func (s *State) NextMonth() {
	s.Month = addMonths(s.Month, 1)
}

// PrevMonth moves the calendar anchor back one month
func (s *State) PrevMonth() {
	s.Month = addMonths(s.Month, -1)
}

// FirstOfMonth returns the first day of d's month
func FirstOfMonth(d valueobject.Date) valueobject.Date {
	return valueobject.NewDate(d.Year, d.Month, 1)
}

func addMonths(d valueobject.Date, n int) valueobject.Date {
	return valueobject.NewDate(d.Year, d.Month+time.Month(n), 1)
}

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}
