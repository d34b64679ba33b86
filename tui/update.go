package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/application/dragdrop"
	"taskboard/internal/application/notify"
	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/valueobject"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case syncedMsg:
		if msg.err != nil {
			m.setStatus("Sync failed: "+msg.err.Error(), true)
		} else {
			m.setStatus("", false)
		}
		m.clampFocus()
		return m, nil

	case committedMsg:
		// success and failure both arrive as notifications
		m.clampFocus()
		return m, nil

	case createdMsg:
		// rejected input is returned without a notification
		if errors.Is(msg.err, entity.ErrValidation) || errors.Is(msg.err, entity.ErrNotAuthenticated) {
			m.setStatus(msg.err.Error(), true)
		}
		m.clampFocus()
		return m, nil

	case notificationMsg:
		n := notify.Notification(msg)
		if n.Level == notify.LevelError {
			text := n.Message
			if n.Err != nil {
				text += ": " + n.Err.Error()
			}
			m.setStatus(text, true)
		} else {
			m.setStatus(n.Message, false)
		}
		m.clampFocus()
		return m, m.waitForNotification()

	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.NextTab):
		m.tab = tabs[(int(m.tab)+1)%len(tabs)]
		m.grabbed = ""
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.setStatus("Refreshing...", false)
		return m, m.refresh()

	case key.Matches(msg, keys.Search):
		m.startInput(modeSearch, "search: ", m.state.Query)
		return m, nil

	case key.Matches(msg, keys.Cancel):
		if m.grabbed != "" {
			m.grabbed = ""
			m.setStatus("Move cancelled", false)
		} else if m.state.Query != "" {
			m.state.Query = ""
			m.clampFocus()
		}
		return m, nil
	}

	switch m.tab {
	case TabBoard:
		return m.updateBoard(msg)
	case TabTable:
		return m.updateTable(msg)
	case TabCalendar:
		return m.updateCalendar(msg)
	}
	return m, nil
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		if m.grabbed != "" {
			if m.dropColumn > 0 {
				m.dropColumn--
			}
		} else {
			m.moveLeft()
		}

	case key.Matches(msg, keys.Right):
		if m.grabbed != "" {
			if m.dropColumn < len(valueobject.AllStatuses())-1 {
				m.dropColumn++
			}
		} else {
			m.moveRight()
		}

	case key.Matches(msg, keys.Up):
		m.moveUp()

	case key.Matches(msg, keys.Down):
		m.moveDown()

	case key.Matches(msg, keys.Grab):
		if task, ok := m.currentTask(); ok {
			m.grabbed = task.ID
			m.dropColumn = m.focusedColumn
			m.setStatus("Moving "+task.Title+": pick a column and drop", false)
		}

	case key.Matches(msg, keys.Drop):
		return m.drop()

	case key.Matches(msg, keys.Advance):
		return m.advance()

	case key.Matches(msg, keys.Add):
		m.startInput(modeAdd, "new task: ", "")

	case key.Matches(msg, keys.Delete):
		return m.deleteSelected()
	}

	return m, nil
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.tableCursor > 0 {
			m.tableCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.tableCursor < len(m.table())-1 {
			m.tableCursor++
		}
	case key.Matches(msg, keys.Sort):
		m.state.CycleSortField()
	case key.Matches(msg, keys.Order):
		m.state.FlipOrder()
	case key.Matches(msg, keys.StatusFilter):
		m.state.CycleStatusFilter()
		m.tableCursor = 0
	case key.Matches(msg, keys.PriorityFilter):
		m.state.CyclePriorityFilter()
		m.tableCursor = 0
	case key.Matches(msg, keys.Advance):
		return m.advance()
	case key.Matches(msg, keys.Delete):
		return m.deleteSelected()
	}

	m.updateTableScroll(m.tableRowsVisible())
	return m, nil
}

func (m Model) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.PrevMonth), key.Matches(msg, keys.Left):
		m.state.PrevMonth()
	case key.Matches(msg, keys.NextMonth), key.Matches(msg, keys.Right):
		m.state.NextMonth()
	}
	return m, nil
}

// updateInput feeds keys to the prompt until enter or esc
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopInput()
		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.stopInput()

		if mode == modeSearch {
			m.state.Query = value
			m.focusedTask = 0
			m.tableCursor = 0
			m.clampFocus()
			return m, nil
		}
		if value == "" {
			return m, nil
		}
		return m, m.create(entity.CreateTaskInput{
			Title:    value,
			Priority: valueobject.PriorityMedium,
			Category: valueobject.CategoryOther,
			Status:   m.focusedStatus(),
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeSearch {
		m.state.Query = m.input.Value()
		m.clampFocus()
	}
	return m, cmd
}

func (m *Model) startInput(mode inputMode, prompt, value string) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) stopInput() {
	m.mode = modeNormal
	m.input.Blur()
	m.input.SetValue("")
}

// drop moves the grabbed task onto the chosen column
func (m Model) drop() (tea.Model, tea.Cmd) {
	if m.grabbed == "" {
		return m, nil
	}
	statuses := valueobject.AllStatuses()
	target := dragdrop.ColumnID(statuses[m.dropColumn])
	dragged := m.grabbed
	m.grabbed = ""

	commit, err := m.sync.StageMove(dragged, target)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	if commit == nil {
		m.setStatus("", false)
		return m, nil
	}

	m.focusedColumn = m.dropColumn
	m.focusTask(dragged)
	return m, m.runCommit(commit)
}

// advance moves the selected task one column to the right
func (m Model) advance() (tea.Model, tea.Cmd) {
	task, ok := m.selected()
	if !ok {
		return m, nil
	}
	next, ok := task.Status.Next()
	if !ok {
		m.setStatus("Task is already done", false)
		return m, nil
	}

	commit, err := m.sync.StageMove(task.ID, dragdrop.ColumnID(next))
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.clampFocus()
	return m, m.runCommit(commit)
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	task, ok := m.selected()
	if !ok {
		return m, nil
	}

	commit, err := m.sync.StageDelete(task.ID)
	if err != nil {
		if errors.Is(err, entity.ErrTaskNotFound) {
			m.clampFocus()
			return m, nil
		}
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.clampFocus()
	return m, m.runCommit(commit)
}

// moveLeft moves focus to the left column
func (m *Model) moveLeft() {
	if m.focusedColumn > 0 {
		m.focusedColumn--
		m.focusedTask = 0
		m.clampFocus()
	}
}

// moveRight moves focus to the right column
func (m *Model) moveRight() {
	if m.focusedColumn < len(valueobject.AllStatuses())-1 {
		m.focusedColumn++
		m.focusedTask = 0
		m.clampFocus()
	}
}

// moveUp moves focus to the task above
func (m *Model) moveUp() {
	if m.focusedTask > 0 {
		m.focusedTask--
	}
	m.updateScroll(m.cardsVisible())
}

// moveDown moves focus to the task below
func (m *Model) moveDown() {
	board := m.board()
	if m.focusedColumn < len(board.Columns) && m.focusedTask < len(board.Columns[m.focusedColumn].Tasks)-1 {
		m.focusedTask++
	}
	m.updateScroll(m.cardsVisible())
}

// focusTask points the cursor at id inside the focused column
func (m *Model) focusTask(id string) {
	board := m.board()
	if m.focusedColumn >= len(board.Columns) {
		return
	}
	for i, t := range board.Columns[m.focusedColumn].Tasks {
		if t.ID == id {
			m.focusedTask = i
			m.updateScroll(m.cardsVisible())
			return
		}
	}
	m.clampFocus()
}

func (m Model) focusedStatus() valueobject.Status {
	statuses := valueobject.AllStatuses()
	if m.tab == TabBoard && m.focusedColumn >= 0 && m.focusedColumn < len(statuses) {
		return statuses[m.focusedColumn]
	}
	return valueobject.StatusTodo
}
