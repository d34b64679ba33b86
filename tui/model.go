package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/application/notify"
	"taskboard/internal/application/store"
	"taskboard/internal/application/tasksync"
	"taskboard/internal/application/view"
	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/valueobject"
)

// Tab is one of the three projections
type Tab int

const (
	TabBoard Tab = iota
	TabTable
	TabCalendar
)

var tabs = []Tab{TabBoard, TabTable, TabCalendar}

func (t Tab) String() string {
	switch t {
	case TabTable:
		return "Table"
	case TabCalendar:
		return "Calendar"
	}
	return "Board"
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeAdd
	modeSearch
)

// Model represents the TUI state
type Model struct {
	sync          *tasksync.Service
	tasks         *store.TaskStore
	notifications <-chan notify.Notification
	timeout       time.Duration

	tab   Tab
	state view.State
	today valueobject.Date

	focusedColumn int   // which column is currently selected
	focusedTask   int   // which task in the current column is selected
	scrollOffsets []int // scroll offset for each column (vertical)
	grabbed       string
	dropColumn    int

	tableCursor int
	tableOffset int

	input textinput.Model
	mode  inputMode

	status        string
	statusIsError bool
	width         int
	height        int
}

// NewModel creates a new TUI model. notifications receives the sync
// service's messages for the status line.
func NewModel(sync *tasksync.Service, notifications <-chan notify.Notification, today valueobject.Date, timeout time.Duration) Model {
	input := textinput.New()
	input.CharLimit = entity.MaxTitleLength
	input.Width = 50
	input.Cursor.SetMode(cursor.CursorStatic)

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return Model{
		sync:          sync,
		tasks:         sync.Store(),
		notifications: notifications,
		timeout:       timeout,
		state:         view.DefaultState(today),
		today:         today,
		scrollOffsets: make([]int, len(valueobject.AllStatuses())),
		input:         input,
	}
}

type (
	syncedMsg       struct{ err error }
	committedMsg    struct{ err error }
	createdMsg      struct{ err error }
	notificationMsg notify.Notification
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.waitForNotification())
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		return syncedMsg{err: m.sync.Refresh(ctx)}
	}
}

func (m Model) runCommit(commit tasksync.Commit) tea.Cmd {
	if commit == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		return committedMsg{err: commit(ctx)}
	}
}

func (m Model) create(in entity.CreateTaskInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		_, err := m.sync.Create(ctx, in)
		return createdMsg{err: err}
	}
}

func (m Model) waitForNotification() tea.Cmd {
	if m.notifications == nil {
		return nil
	}
	ch := m.notifications
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}

// board derives the kanban projection from the current snapshot
func (m Model) board() view.Board {
	return view.Kanban(m.tasks.Tasks(), m.state.Query)
}

// table derives the table projection from the current snapshot
func (m Model) table() []entity.Task {
	return view.Table(m.tasks.Tasks(), m.state)
}

// Helper to get current task on the board
func (m Model) currentTask() (entity.Task, bool) {
	board := m.board()
	if m.focusedColumn < 0 || m.focusedColumn >= len(board.Columns) {
		return entity.Task{}, false
	}
	col := board.Columns[m.focusedColumn]
	if m.focusedTask < 0 || m.focusedTask >= len(col.Tasks) {
		return entity.Task{}, false
	}
	return col.Tasks[m.focusedTask], true
}

// Helper to get the task under the table cursor
func (m Model) currentRow() (entity.Task, bool) {
	rows := m.table()
	if m.tableCursor < 0 || m.tableCursor >= len(rows) {
		return entity.Task{}, false
	}
	return rows[m.tableCursor], true
}

// selected returns the task the active tab points at
func (m Model) selected() (entity.Task, bool) {
	switch m.tab {
	case TabBoard:
		return m.currentTask()
	case TabTable:
		return m.currentRow()
	}
	return entity.Task{}, false
}

// Helper to update scroll position to keep focused task visible
func (m *Model) updateScroll(visible int) {
	if m.focusedColumn < 0 || m.focusedColumn >= len(m.scrollOffsets) {
		return
	}
	if visible < 1 {
		visible = 1
	}

	offset := m.scrollOffsets[m.focusedColumn]
	if m.focusedTask < offset {
		offset = m.focusedTask
	} else if m.focusedTask >= offset+visible {
		offset = m.focusedTask - visible + 1
	}
	if offset < 0 {
		offset = 0
	}
	m.scrollOffsets[m.focusedColumn] = offset
}

func (m *Model) updateTableScroll(visible int) {
	if visible < 1 {
		visible = 1
	}
	if m.tableCursor < m.tableOffset {
		m.tableOffset = m.tableCursor
	} else if m.tableCursor >= m.tableOffset+visible {
		m.tableOffset = m.tableCursor - visible + 1
	}
	if m.tableOffset < 0 {
		m.tableOffset = 0
	}
}

// clampFocus keeps cursors inside the current projections
func (m *Model) clampFocus() {
	board := m.board()
	if m.focusedColumn >= len(board.Columns) {
		m.focusedColumn = len(board.Columns) - 1
	}
	if m.focusedColumn < 0 {
		m.focusedColumn = 0
	}
	count := 0
	if m.focusedColumn < len(board.Columns) {
		count = len(board.Columns[m.focusedColumn].Tasks)
	}
	if m.focusedTask >= count {
		m.focusedTask = count - 1
	}
	if m.focusedTask < 0 {
		m.focusedTask = 0
	}

	rows := len(m.table())
	if m.tableCursor >= rows {
		m.tableCursor = rows - 1
	}
	if m.tableCursor < 0 {
		m.tableCursor = 0
	}

	if m.grabbed != "" {
		if _, ok := m.tasks.Get(m.grabbed); !ok {
			m.grabbed = ""
		}
	}
}

func (m *Model) setStatus(msg string, isError bool) {
	m.status = msg
	m.statusIsError = isError
}
