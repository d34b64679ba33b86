package view

import (
	"time"

	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/valueobject"
)

const (
	CalendarRows      = 6
	DaysPerWeek       = 7
	MaxTasksPerDay    = 3
	calendarWeekStart = time.Sunday
)

// Day is one cell of the calendar grid
type Day struct {
	Date     valueobject.Date
	InMonth  bool
	IsToday  bool
	Tasks    []entity.Task
	Overflow int
	Total    int
}

// CalendarGrid is the month projection: six weeks starting on a Sunday
type CalendarGrid struct {
	Month valueobject.Date
	Weeks [CalendarRows][DaysPerWeek]Day
}

// GridStart returns the Sunday on or before the first of anchor's month
func GridStart(anchor valueobject.Date) valueobject.Date {
	first := FirstOfMonth(anchor)
	offset := (int(first.Weekday()) - int(calendarWeekStart) + DaysPerWeek) % DaysPerWeek
	return first.AddDays(-offset)
}

// Calendar buckets tasks onto the days of anchor's month. A task sits on
// its end date, else its start date; tasks with neither are left out.
func Calendar(tasks []entity.Task, anchor, today valueobject.Date) CalendarGrid {
	grid := CalendarGrid{Month: FirstOfMonth(anchor)}

	buckets := make(map[valueobject.Date][]entity.Task)
	for _, t := range tasks {
		if d, ok := t.CalendarDate(); ok {
			buckets[d] = append(buckets[d], t)
		}
	}

	day := GridStart(anchor)
	for w := 0; w < CalendarRows; w++ {
		for i := 0; i < DaysPerWeek; i++ {
			all := buckets[day]
			visible := all
			if len(visible) > MaxTasksPerDay {
				visible = visible[:MaxTasksPerDay]
			}

			grid.Weeks[w][i] = Day{
				Date:     day,
				InMonth:  day.Month == grid.Month.Month && day.Year == grid.Month.Year,
				IsToday:  day == today,
				Tasks:    append([]entity.Task{}, visible...),
				Overflow: len(all) - len(visible),
				Total:    len(all),
			}
			day = day.AddDays(1)
		}
	}

	return grid
}

// Day returns the cell for d, if d is on the grid
func (g CalendarGrid) Day(d valueobject.Date) (Day, bool) {
	for _, week := range g.Weeks {
		for _, day := range week {
			if day.Date == d {
				return day, true
			}
		}
	}
	return Day{}, false
}

// TasksOn returns every task shown on d, without the per-day limit
func TasksOn(tasks []entity.Task, d valueobject.Date) []entity.Task {
	out := []entity.Task{}
	for _, t := range tasks {
		if cd, ok := t.CalendarDate(); ok && cd == d {
			out = append(out, t)
		}
	}
	return out
}
