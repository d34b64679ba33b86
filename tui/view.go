package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/application/view"
	"taskboard/internal/domain/entity"
	"taskboard/tui/style"
)

const (
	cardHeight   = 4
	calendarCell = 16
)

var scrollHint = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true).Align(lipgloss.Center)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	switch m.tab {
	case TabTable:
		body = m.renderTable()
	case TabCalendar:
		body = m.renderCalendar()
	default:
		body = m.renderBoard()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), body, m.renderStatus(), m.renderHelp())
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t == m.tab {
			parts = append(parts, style.ActiveTabStyle.Render(t.String()))
		} else {
			parts = append(parts, style.TabStyle.Render(t.String()))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if m.state.Query != "" {
		line += style.StatusStyle.Render("  search: " + m.state.Query)
	}
	return line
}

// bodyHeight is what remains after tabs, status and help
func (m Model) bodyHeight() int {
	h := m.height - 6
	if h < cardHeight {
		h = cardHeight
	}
	return h
}

func (m Model) cardsVisible() int {
	return (m.bodyHeight() - 4) / cardHeight
}

func (m Model) tableRowsVisible() int {
	return m.bodyHeight() - 2
}

func (m Model) renderBoard() string {
	board := m.board()
	n := len(board.Columns)

	// border and padding take 4 cells per column
	width := m.width/n - 4
	if width < 16 {
		width = 16
	}

	columns := make([]string, 0, n)
	for i, col := range board.Columns {
		columns = append(columns, m.renderColumn(col, i, width))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// renderColumn renders a single column with scrolling support
func (m Model) renderColumn(col view.Column, colIndex, width int) string {
	isFocused := colIndex == m.focusedColumn
	isDropTarget := m.grabbed != "" && colIndex == m.dropColumn

	heading := fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))
	if isDropTarget {
		heading = "▸ " + heading
	}
	title := style.ColumnTitleStyle.Width(width).
		Foreground(lipgloss.Color(col.Color)).Render(heading)

	offset := 0
	if colIndex < len(m.scrollOffsets) {
		offset = m.scrollOffsets[colIndex]
	}
	if offset > len(col.Tasks) {
		offset = len(col.Tasks)
	}
	end := offset + m.cardsVisible()
	if end > len(col.Tasks) {
		end = len(col.Tasks)
	}

	var cards []string
	if offset > 0 {
		cards = append(cards, scrollHint.Width(width).Render("▲ more above ▲"))
	}
	for i := offset; i < end; i++ {
		task := col.Tasks[i]
		cards = append(cards, m.renderCard(task, width, isFocused && i == m.focusedTask))
	}
	if end < len(col.Tasks) {
		cards = append(cards, scrollHint.Width(width).Render("▼ more below ▼"))
	}
	if len(col.Tasks) == 0 {
		cards = append(cards, style.TaskStyle.Width(width).Foreground(lipgloss.Color("240")).Render("(empty)"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", strings.Join(cards, "\n"))

	s := style.ColumnStyle
	if isFocused || isDropTarget {
		s = style.FocusedColumnStyle
	}
	return s.Height(m.bodyHeight()).Render(content)
}

func (m Model) renderCard(task entity.Task, width int, selected bool) string {
	s := style.TaskStyle
	switch {
	case task.ID == m.grabbed:
		s = style.GrabbedTaskStyle
	case selected:
		s = style.SelectedTaskStyle
	}

	lines := []string{
		truncate(task.Title, width-2),
		style.PriorityStyle(task.Priority).Render(task.Priority.Label()) + "  " + task.Category.String(),
	}
	if task.Description != "" {
		lines = append(lines, style.DescriptionStyle.Render(truncate(task.Description, width-2)))
	}
	if task.EndDate != nil {
		lines = append(lines, "due "+task.EndDate.String())
	}
	return s.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderTable() string {
	rows := m.table()
	widths := []int{30, 12, 8, 10, 12}

	header := []string{
		pad("TITLE", widths[0]),
		pad("STATUS", widths[1]),
		pad("PRIORITY", widths[2]),
		pad("CATEGORY", widths[3]),
		pad("END DATE", widths[4]),
	}
	lines := []string{
		style.TableHeaderStyle.Render(strings.Join(header, " ")),
		style.StatusStyle.Render(fmt.Sprintf("sort: %s %s  status: %s  priority: %s  (%d tasks)",
			m.state.SortField, m.state.SortOrder, m.state.StatusFilter, m.state.PriorityFilter, len(rows))),
	}

	end := m.tableOffset + m.tableRowsVisible()
	if end > len(rows) {
		end = len(rows)
	}
	for i := m.tableOffset; i < end; i++ {
		t := rows[i]
		due := "-"
		if t.EndDate != nil {
			due = t.EndDate.String()
		}
		line := strings.Join([]string{
			pad(truncate(t.Title, widths[0]), widths[0]),
			pad(t.Status.Title(), widths[1]),
			pad(t.Priority.Label(), widths[2]),
			pad(t.Category.String(), widths[3]),
			pad(due, widths[4]),
		}, " ")
		if i == m.tableCursor {
			line = style.SelectedTaskStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(rows) == 0 {
		lines = append(lines, style.StatusStyle.Render("No tasks match"))
	}

	return lipgloss.NewStyle().Height(m.bodyHeight()).Render(strings.Join(lines, "\n"))
}

func (m Model) renderCalendar() string {
	grid := view.Calendar(m.tasks.Tasks(), m.state.Month, m.today)

	cell := lipgloss.NewStyle().Width(calendarCell).Height(view.MaxTasksPerDay + 2)
	header := make([]string, 0, view.DaysPerWeek)
	for _, name := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		header = append(header, style.TableHeaderStyle.Width(calendarCell).Render(name))
	}

	rows := []string{
		style.ColumnTitleStyle.Render(grid.Month.Time().Format("January 2006")),
		lipgloss.JoinHorizontal(lipgloss.Top, header...),
	}
	for _, week := range grid.Weeks {
		cells := make([]string, 0, view.DaysPerWeek)
		for _, day := range week {
			label := fmt.Sprintf("%2d", day.Date.Day)
			switch {
			case day.IsToday:
				label = style.TodayStyle.Render(label)
			case !day.InMonth:
				label = style.OutsideMonthStyle.Render(label)
			}

			lines := []string{label}
			for _, t := range day.Tasks {
				lines = append(lines, style.PriorityStyle(t.Priority).Render("•")+" "+truncate(t.Title, calendarCell-3))
			}
			if day.Overflow > 0 {
				lines = append(lines, style.OutsideMonthStyle.Render(fmt.Sprintf("+%d more", day.Overflow)))
			}
			cells = append(cells, cell.Render(strings.Join(lines, "\n")))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderStatus() string {
	if m.mode != modeNormal {
		return m.input.View()
	}

	snap := m.tasks.Snapshot()
	switch {
	case m.status != "" && m.statusIsError:
		return style.ErrorStyle.Render(m.status)
	case m.status != "":
		return style.StatusStyle.Render(m.status)
	case snap.IsLoading:
		return style.StatusStyle.Render("Loading...")
	case snap.Error != "":
		return style.ErrorStyle.Render(snap.Error)
	}
	return style.StatusStyle.Render(fmt.Sprintf("%d tasks", len(snap.Tasks)))
}

// renderHelp renders the help text at the bottom
func (m Model) renderHelp() string {
	var help []string
	switch m.tab {
	case TabBoard:
		if m.grabbed != "" {
			help = helpFor(keys.Left, keys.Right, keys.Drop, keys.Cancel)
		} else {
			help = helpFor(keys.Grab, keys.Advance, keys.Add, keys.Delete, keys.Search)
		}
	case TabTable:
		help = helpFor(keys.Sort, keys.Order, keys.StatusFilter, keys.PriorityFilter, keys.Search)
	case TabCalendar:
		help = helpFor(keys.PrevMonth, keys.NextMonth)
	}
	help = append(help, helpFor(keys.NextTab, keys.Refresh, keys.Quit)...)

	return style.HelpStyle.Render(strings.Join(help, "  •  "))
}

func helpFor(bindings ...key.Binding) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, h.Key+" "+h.Desc)
	}
	return out
}

func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
