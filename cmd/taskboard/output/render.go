package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/application/view"
	"taskboard/internal/domain/entity"
)

const (
	boardColumnWidth  = 30
	calendarCellWidth = 14
)

var (
	columnBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(boardColumnWidth)
	cardStyle   = lipgloss.NewStyle().Width(boardColumnWidth - 2)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

// RenderBoard draws the kanban columns side by side
func RenderBoard(board view.Board) string {
	columns := make([]string, 0, len(board.Columns))

	for _, col := range board.Columns {
		color := lipgloss.Color(col.Color)
		title := lipgloss.NewStyle().Foreground(color).Bold(true).
			Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks)))

		lines := []string{title, ""}
		if len(col.Tasks) == 0 {
			lines = append(lines, subtleStyle.Render("no tasks"))
		}
		for _, t := range col.Tasks {
			lines = append(lines, renderCard(t))
		}

		columns = append(columns, columnBox.BorderForeground(color).Render(strings.Join(lines, "\n")))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderCard(t entity.Task) string {
	var b strings.Builder
	b.WriteString(boldStyle.Render(truncate(t.Title, boardColumnWidth-4)))
	b.WriteString("\n")

	meta := fmt.Sprintf("[%s] %s", t.Priority.Label(), t.Category)
	if t.EndDate != nil {
		meta += " · " + t.EndDate.String()
	}
	b.WriteString(subtleStyle.Render(meta))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(shortID(t.ID)))

	return cardStyle.Render(b.String())
}

// RenderCalendar draws a month grid with up to three titles per day
func RenderCalendar(grid view.CalendarGrid) string {
	cell := lipgloss.NewStyle().Width(calendarCellWidth).Height(view.MaxTasksPerDay+2).
		Border(lipgloss.NormalBorder(), false, true, true, false).BorderForeground(lipgloss.Color("240"))
	today := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)

	header := make([]string, 0, view.DaysPerWeek)
	for _, name := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		header = append(header, lipgloss.NewStyle().Width(calendarCellWidth+1).Bold(true).Render(name))
	}

	rows := []string{
		boldStyle.Render(grid.Month.Time().Format("January 2006")),
		lipgloss.JoinHorizontal(lipgloss.Top, header...),
	}

	for _, week := range grid.Weeks {
		cells := make([]string, 0, view.DaysPerWeek)
		for _, day := range week {
			label := fmt.Sprintf("%2d", day.Date.Day)
			switch {
			case day.IsToday:
				label = today.Render(label)
			case !day.InMonth:
				label = subtleStyle.Render(label)
			}

			lines := []string{label}
			for _, t := range day.Tasks {
				lines = append(lines, truncate(t.Title, calendarCellWidth-1))
			}
			if day.Overflow > 0 {
				lines = append(lines, subtleStyle.Render(fmt.Sprintf("+%d more", day.Overflow)))
			}
			cells = append(cells, cell.Render(strings.Join(lines, "\n")))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// TableRows formats tasks for Printer.Table
func TableRows(tasks []entity.Task) ([]string, [][]string) {
	headers := []string{"ID", "TITLE", "STATUS", "PRIORITY", "CATEGORY", "END DATE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		end := "-"
		if t.EndDate != nil {
			end = t.EndDate.String()
		}
		rows = append(rows, []string{
			t.ID,
			truncate(t.Title, 40),
			t.Status.Title(),
			t.Priority.Label(),
			t.Category.String(),
			end,
		})
	}
	return headers, rows
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
