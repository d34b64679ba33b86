package tui

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/application/gateway"
	"taskboard/internal/application/notify"
	"taskboard/internal/application/store"
	"taskboard/internal/application/tasksync"
	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/service"
	"taskboard/internal/domain/valueobject"
	"taskboard/internal/infrastructure/persistence/memory"
	"taskboard/pkg/clock"
)

var today = valueobject.NewDate(2025, time.March, 14)

func newTestModel(t *testing.T, seed ...entity.CreateTaskInput) (Model, *gateway.DocumentGateway) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	clk := clock.NewManual(1000)
	gw := gateway.NewDocumentGateway(memory.NewDocumentStore(), clk, logger)
	for _, in := range seed {
		if _, err := gw.Create(context.Background(), "alice", in); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	svc := tasksync.NewService(gw, store.NewTaskStore(clk), service.NewValidationService(), &notify.Recorder{}, logger, tasksync.KeepLastGood)
	if err := svc.SetIdentity(context.Background(), "alice"); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}

	m := NewModel(svc, nil, today, time.Second)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, gw
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	next := updated.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				updated, _ = next.Update(out)
				next = updated.(Model)
			}
		}
	}
	return next
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func remoteStatus(t *testing.T, gw *gateway.DocumentGateway, title string) valueobject.Status {
	t.Helper()
	tasks, err := gw.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, task := range tasks {
		if task.Title == title {
			return task.Status
		}
	}
	t.Fatalf("task %q not found", title)
	return ""
}

func todo(title string) entity.CreateTaskInput {
	return entity.CreateTaskInput{
		Title:    title,
		Priority: valueobject.PriorityHigh,
		Category: valueobject.CategoryWork,
		Status:   valueobject.StatusTodo,
	}
}

func TestGrabAndDrop(t *testing.T) {
	m, gw := newTestModel(t, todo("write report"))

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.grabbed == "" {
		t.Fatal("expected a grabbed task")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.dropColumn != 2 {
		t.Fatalf("dropColumn = %d, want 2", m.dropColumn)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.grabbed != "" {
		t.Error("grab should be released after drop")
	}
	if m.focusedColumn != 2 {
		t.Errorf("focusedColumn = %d, want 2", m.focusedColumn)
	}
	if got := remoteStatus(t, gw, "write report"); got != valueobject.StatusDone {
		t.Errorf("remote status = %s, want done", got)
	}
}

func TestCancelGrab(t *testing.T) {
	m, gw := newTestModel(t, todo("write report"))

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := remoteStatus(t, gw, "write report"); got != valueobject.StatusTodo {
		t.Errorf("remote status = %s, want todo", got)
	}
}

func TestAdvance(t *testing.T) {
	m, gw := newTestModel(t, todo("write report"))

	m = send(t, m, runes("m"))
	if got := remoteStatus(t, gw, "write report"); got != valueobject.StatusInProgress {
		t.Errorf("remote status = %s, want in-progress", got)
	}

	board := m.board()
	if len(board.Columns[1].Tasks) != 1 {
		t.Errorf("in-progress column has %d tasks, want 1", len(board.Columns[1].Tasks))
	}
}

func TestAddTaskInFocusedColumn(t *testing.T) {
	m, gw := newTestModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, runes("a"))
	if m.mode != modeAdd {
		t.Fatal("expected add mode")
	}
	m = send(t, m, runes("plan sprint"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeNormal {
		t.Error("expected normal mode after submit")
	}
	if got := remoteStatus(t, gw, "plan sprint"); got != valueobject.StatusInProgress {
		t.Errorf("remote status = %s, want in-progress", got)
	}
	if len(m.tasks.Tasks()) != 1 {
		t.Errorf("store has %d tasks, want 1", len(m.tasks.Tasks()))
	}
}

func TestRejectedQuickAddShowsError(t *testing.T) {
	m, gw := newTestModel(t)
	if err := m.sync.SetIdentity(context.Background(), ""); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}

	m = send(t, m, runes("a"))
	m = send(t, m, runes("plan sprint"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.statusIsError || !strings.Contains(m.status, entity.ErrNotAuthenticated.Error()) {
		t.Fatalf("expected a not-authenticated status, got %q (error %v)", m.status, m.statusIsError)
	}
	tasks, err := gw.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("remote has %d tasks, want 0", len(tasks))
	}
}

func TestSearchFiltersBoard(t *testing.T) {
	m, _ := newTestModel(t, todo("write report"), todo("buy milk"))

	m = send(t, m, runes("/"))
	m = send(t, m, runes("MILK"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.state.Query != "MILK" {
		t.Fatalf("query = %q", m.state.Query)
	}
	if got := m.board().Total(); got != 1 {
		t.Errorf("board total = %d, want 1", got)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.board().Total(); got != 2 {
		t.Errorf("board total after clear = %d, want 2", got)
	}
}

func TestDeleteFromTable(t *testing.T) {
	m, gw := newTestModel(t, todo("write report"))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != TabTable {
		t.Fatalf("tab = %s, want Table", m.tab)
	}
	m = send(t, m, runes("d"))

	tasks, err := gw.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("remote has %d tasks, want 0", len(tasks))
	}
}

func TestCalendarMonthNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m = send(t, m, runes("]"))
	if want := valueobject.NewDate(2025, time.April, 1); m.state.Month != want {
		t.Errorf("month = %s, want %s", m.state.Month, want)
	}
	m = send(t, m, runes("["))
	m = send(t, m, runes("["))
	if want := valueobject.NewDate(2025, time.February, 1); m.state.Month != want {
		t.Errorf("month = %s, want %s", m.state.Month, want)
	}
}

func TestNotificationShownInStatus(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(notificationMsg(notify.Success("1", "Task created")))
	m = updated.(Model)
	if m.status != "Task created" || m.statusIsError {
		t.Errorf("status = %q (error %v)", m.status, m.statusIsError)
	}
}

func TestViewRendersEachTab(t *testing.T) {
	due := valueobject.NewDate(2025, time.March, 20)
	in := todo("write report")
	in.EndDate = &due
	m, _ := newTestModel(t, in)

	for _, tab := range tabs {
		m.tab = tab
		out := m.View()
		if !strings.Contains(out, "write") {
			t.Errorf("%s view does not show the task:\n%s", tab, out)
		}
	}
}
