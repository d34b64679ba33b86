package tasksync

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"taskboard/internal/application/dto"
	"taskboard/internal/application/gateway"
	"taskboard/internal/application/notify"
	"taskboard/internal/application/store"
	"taskboard/internal/application/view"
	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/repository"
	"taskboard/internal/domain/service"
	"taskboard/internal/domain/valueobject"
	"taskboard/internal/infrastructure/persistence/memory"
	"taskboard/pkg/clock"
)

type harness struct {
	svc      *Service
	docs     *memory.DocumentStore
	gateway  *gateway.DocumentGateway
	recorder *notify.Recorder
}

func newHarness(t *testing.T, policy FetchFailurePolicy) *harness {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	clk := clock.NewManual(1000)
	docs := memory.NewDocumentStore()
	gw := gateway.NewDocumentGateway(docs, clk, logger)
	rec := &notify.Recorder{}

	svc := NewService(gw, store.NewTaskStore(clk), service.NewValidationService(), rec, logger, policy)
	return &harness{svc: svc, docs: docs, gateway: gw, recorder: rec}
}

func (h *harness) seed(t *testing.T, owner, title string, status valueobject.Status, priority valueobject.Priority) *entity.Task {
	t.Helper()

	task, err := h.gateway.Create(context.Background(), owner, entity.CreateTaskInput{
		Title:    title,
		Priority: priority,
		Category: valueobject.CategoryWork,
		Status:   status,
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return task
}

func (h *harness) signIn(t *testing.T, owner string) {
	t.Helper()
	if err := h.svc.SetIdentity(context.Background(), owner); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
}

func TestSetIdentityFetches(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	h.seed(t, "alice", "a1", valueobject.StatusTodo, valueobject.PriorityLow)
	h.seed(t, "alice", "a2", valueobject.StatusDone, valueobject.PriorityLow)
	h.seed(t, "bob", "b1", valueobject.StatusTodo, valueobject.PriorityLow)

	if got := h.svc.State(); got != StateUnauthenticated {
		t.Fatalf("initial state = %s", got)
	}

	h.signIn(t, "alice")

	snap := h.svc.Store().Snapshot()
	if h.svc.State() != StateSynced || snap.IsLoading || snap.Error != "" {
		t.Fatalf("unexpected state %s %+v", h.svc.State(), snap)
	}
	if len(snap.Tasks) != 2 || snap.Tasks[0].Title != "a2" {
		t.Errorf("expected alice's tasks newest first, got %+v", snap.Tasks)
	}

	if err := h.svc.SetIdentity(context.Background(), ""); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if h.svc.State() != StateUnauthenticated || len(h.svc.Store().Tasks()) != 0 {
		t.Error("sign out must empty the store")
	}
}

func TestMutationsRequireIdentity(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	ctx := context.Background()

	if err := h.svc.Edit(ctx, "x", entity.StatusPatch(valueobject.StatusDone)); !errors.Is(err, entity.ErrNotAuthenticated) {
		t.Errorf("edit: expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := h.svc.Create(ctx, entity.CreateTaskInput{Title: "x"}); !errors.Is(err, entity.ErrNotAuthenticated) {
		t.Errorf("create: expected ErrNotAuthenticated, got %v", err)
	}
	if err := h.svc.Refresh(ctx); !errors.Is(err, entity.ErrNotAuthenticated) {
		t.Errorf("refresh: expected ErrNotAuthenticated, got %v", err)
	}
}

func TestFailedUpdateReconcilesWithRemote(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	target := h.seed(t, "alice", "one", valueobject.StatusTodo, valueobject.PriorityLow)
	h.seed(t, "alice", "two", valueobject.StatusInProgress, valueobject.PriorityHigh)
	h.signIn(t, "alice")

	h.docs.FailOn(memory.OpPatch, errors.New("write rejected"))

	title := "optimistic"
	commit, err := h.svc.StageEdit(target.ID, entity.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("stage failed: %v", err)
	}

	optimistic, _ := h.svc.Store().Get(target.ID)
	if optimistic.Title != "optimistic" {
		t.Fatalf("expected optimistic title before commit, got %q", optimistic.Title)
	}

	if err := commit(context.Background()); err == nil {
		t.Fatal("expected the commit to fail")
	}

	fresh, err := h.gateway.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := h.svc.Store().Tasks(); !reflect.DeepEqual(got, fresh) {
		t.Errorf("store differs from remote after reconcile:\n got  %+v\n want %+v", got, fresh)
	}

	notes := h.recorder.All()
	if len(notes) != 1 || notes[0].Level != notify.LevelError {
		t.Errorf("expected one failure notification, got %+v", notes)
	}
}

func TestFailedDeleteRestoresTask(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	target := h.seed(t, "alice", "keep me", valueobject.StatusTodo, valueobject.PriorityLow)
	h.signIn(t, "alice")

	h.docs.FailOn(memory.OpRemove, errors.New("offline"))

	if err := h.svc.Delete(context.Background(), target.ID); err == nil {
		t.Fatal("expected delete to fail")
	}
	if _, ok := h.svc.Store().Get(target.ID); !ok {
		t.Error("refetch should bring the task back")
	}
}

func TestEditUnknownTaskMakesNoRemoteCall(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	h.signIn(t, "alice")

	err := h.svc.Edit(context.Background(), "ghost", entity.StatusPatch(valueobject.StatusDone))
	if !errors.Is(err, entity.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if calls := h.docs.Calls(); len(calls) != 0 {
		t.Errorf("unexpected remote calls %+v", calls)
	}
}

func TestEditRejectsEndBeforeStart(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	target := h.seed(t, "alice", "dated", valueobject.StatusTodo, valueobject.PriorityLow)
	h.signIn(t, "alice")

	patch := entity.TaskPatch{
		StartDate: entity.SetDate(valueobject.NewDate(2025, 3, 10)),
		EndDate:   entity.SetDate(valueobject.NewDate(2025, 3, 9)),
	}
	if err := h.svc.Edit(context.Background(), target.ID, patch); !errors.Is(err, entity.ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}

	task, _ := h.svc.Store().Get(target.ID)
	if task.StartDate != nil {
		t.Error("rejected patch must not touch the store")
	}
}

func TestFetchFailurePolicies(t *testing.T) {
	tests := []struct {
		policy    FetchFailurePolicy
		wantTasks int
	}{
		{KeepLastGood, 2},
		{ClearOnError, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			h := newHarness(t, tt.policy)
			h.seed(t, "alice", "a", valueobject.StatusTodo, valueobject.PriorityLow)
			h.seed(t, "alice", "b", valueobject.StatusTodo, valueobject.PriorityLow)
			h.signIn(t, "alice")

			h.docs.FailOn(memory.OpQuery, errors.New("timeout"))
			if err := h.svc.Refresh(context.Background()); err == nil {
				t.Fatal("expected refresh to fail")
			}

			snap := h.svc.Store().Snapshot()
			if len(snap.Tasks) != tt.wantTasks {
				t.Errorf("tasks = %d, want %d", len(snap.Tasks), tt.wantTasks)
			}
			if snap.Error == "" || snap.IsLoading {
				t.Errorf("expected error flag without loading, got %+v", snap)
			}
			if h.svc.State() != StateError {
				t.Errorf("state = %s, want error", h.svc.State())
			}

			h.docs.Recover(memory.OpQuery)
			if err := h.svc.Refresh(context.Background()); err != nil {
				t.Fatalf("refresh failed: %v", err)
			}
			if snap := h.svc.Store().Snapshot(); len(snap.Tasks) != 2 || snap.Error != "" {
				t.Errorf("recovery did not restore the snapshot: %+v", snap)
			}
		})
	}
}

type gatedGateway struct {
	repository.TaskGateway
	mu      sync.Mutex
	gates   map[string]chan struct{}
	entered chan string
}

func (g *gatedGateway) List(ctx context.Context, ownerID string) ([]entity.Task, error) {
	g.mu.Lock()
	gate := g.gates[ownerID]
	g.mu.Unlock()

	if gate != nil {
		g.entered <- ownerID
		<-gate
	}
	return g.TaskGateway.List(ctx, ownerID)
}

func TestStaleFetchFromPreviousIdentityIsDiscarded(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	h.seed(t, "alice", "alice task", valueobject.StatusTodo, valueobject.PriorityLow)
	h.seed(t, "bob", "bob task", valueobject.StatusTodo, valueobject.PriorityLow)

	gate := make(chan struct{})
	gated := &gatedGateway{
		TaskGateway: h.gateway,
		gates:       map[string]chan struct{}{"alice": gate},
		entered:     make(chan string, 1),
	}
	svc := NewService(gated, h.svc.Store(), service.NewValidationService(), h.recorder, slog.New(slog.DiscardHandler), KeepLastGood)

	done := make(chan error, 1)
	go func() {
		done <- svc.SetIdentity(context.Background(), "alice")
	}()
	<-gated.entered

	if err := svc.SetIdentity(context.Background(), "bob"); err != nil {
		t.Fatalf("switch to bob failed: %v", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("alice fetch returned %v", err)
	}

	tasks := svc.Store().Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected bob's single task, got %+v", tasks)
	}
	for _, task := range tasks {
		if task.OwnerID != "bob" {
			t.Errorf("task %s of owner %s leaked into bob's store", task.ID, task.OwnerID)
		}
	}
	if svc.Owner() != "bob" || svc.State() != StateSynced {
		t.Errorf("unexpected owner/state %s %s", svc.Owner(), svc.State())
	}
}

func TestCreateInsertsAtHeadOnlyAfterSuccess(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	h.seed(t, "alice", "old medium", valueobject.StatusTodo, valueobject.PriorityMedium)
	h.seed(t, "alice", "old low", valueobject.StatusTodo, valueobject.PriorityLow)
	h.signIn(t, "alice")

	created, err := h.svc.Create(context.Background(), entity.CreateTaskInput{
		Title:    "Write report",
		Priority: valueobject.PriorityHigh,
		Category: valueobject.CategoryWork,
		Status:   valueobject.StatusTodo,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	tasks := h.svc.Store().Tasks()
	if tasks[0].ID != created.ID {
		t.Errorf("expected the new task at the head, got %s", tasks[0].Title)
	}

	todo, _ := view.Kanban(tasks, "").Column(valueobject.StatusTodo)
	found := false
	for _, task := range todo.Tasks {
		found = found || task.ID == created.ID
	}
	if !found {
		t.Error("todo column does not contain the new task")
	}

	rows := view.Table(tasks, view.State{SortField: view.SortPriority, SortOrder: view.Desc})
	if rows[0].ID != created.ID {
		t.Errorf("high priority task should lead the table, got %s", rows[0].Title)
	}
}

func TestCreateFailureLeavesStoreUntouched(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	h.seed(t, "alice", "existing", valueobject.StatusTodo, valueobject.PriorityLow)
	h.signIn(t, "alice")
	before := h.svc.Store().Tasks()

	h.docs.FailOn(memory.OpInsert, errors.New("quota exceeded"))
	_, err := h.svc.Create(context.Background(), entity.CreateTaskInput{
		Title: "new", Priority: valueobject.PriorityLow, Category: valueobject.CategoryOther,
	})
	if err == nil {
		t.Fatal("expected create to fail")
	}

	if after := h.svc.Store().Tasks(); !reflect.DeepEqual(before, after) {
		t.Errorf("store changed on failed create")
	}
	notes := h.recorder.All()
	if len(notes) != 1 || notes[0].Level != notify.LevelError {
		t.Errorf("expected one failure notification, got %+v", notes)
	}
}

func TestMoveOntoCardInDoneColumn(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	dragged := h.seed(t, "alice", "drag me", valueobject.StatusTodo, valueobject.PriorityLow)
	target := h.seed(t, "alice", "finished", valueobject.StatusDone, valueobject.PriorityLow)
	h.signIn(t, "alice")

	moved, err := h.svc.Move(context.Background(), dragged.ID, target.ID)
	if err != nil || !moved {
		t.Fatalf("move failed: moved=%v err=%v", moved, err)
	}

	var patches []memory.Call
	for _, c := range h.docs.Calls() {
		if c.Op == memory.OpPatch {
			patches = append(patches, c)
		}
	}
	if len(patches) != 1 {
		t.Fatalf("expected exactly one patch, got %d", len(patches))
	}

	p := patches[0]
	if p.DocID != dragged.ID || p.Fields[repository.FieldStatus] != "done" {
		t.Errorf("unexpected patch %+v", p)
	}
	for field := range p.Fields {
		if field != repository.FieldStatus && field != repository.FieldUpdatedAt {
			t.Errorf("patch carries extra field %q", field)
		}
	}

	task, _ := h.svc.Store().Get(dragged.ID)
	if task.Status != valueobject.StatusDone {
		t.Errorf("local status = %s, want done", task.Status)
	}
}

func TestMoveOntoOwnColumnIsNoop(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	dragged := h.seed(t, "alice", "stay", valueobject.StatusInProgress, valueobject.PriorityLow)
	h.signIn(t, "alice")
	version := h.svc.Store().Version()

	moved, err := h.svc.Move(context.Background(), dragged.ID, "in-progress")
	if err != nil || moved {
		t.Fatalf("expected no-op, got moved=%v err=%v", moved, err)
	}
	if len(h.docs.Calls()) != 1 {
		t.Errorf("unexpected remote calls %+v", h.docs.Calls())
	}
	if h.svc.Store().Version() != version {
		t.Error("no-op drop must not touch the store")
	}
}

func TestMoveFromRequest(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	dragged := h.seed(t, "alice", "drag me", valueobject.StatusTodo, valueobject.PriorityLow)
	h.signIn(t, "alice")

	_, err := h.svc.MoveFromRequest(context.Background(), dto.MoveTaskRequest{TaskID: dragged.ID})
	if !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected validation error for missing target, got %v", err)
	}

	moved, err := h.svc.MoveFromRequest(context.Background(), dto.MoveTaskRequest{TaskID: dragged.ID, TargetID: "in-progress"})
	if err != nil || !moved {
		t.Fatalf("move failed: moved=%v err=%v", moved, err)
	}
	task, _ := h.svc.Store().Get(dragged.ID)
	if task.Status != valueobject.StatusInProgress {
		t.Errorf("local status = %s, want in-progress", task.Status)
	}
}

func TestStagedMutationsApplyInOrder(t *testing.T) {
	h := newHarness(t, KeepLastGood)
	a := h.seed(t, "alice", "a", valueobject.StatusTodo, valueobject.PriorityLow)
	b := h.seed(t, "alice", "b", valueobject.StatusTodo, valueobject.PriorityLow)
	h.signIn(t, "alice")

	first, err := h.svc.StageMove(a.ID, "in-progress")
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.svc.StageMove(a.ID, "done")
	if err != nil {
		t.Fatal(err)
	}
	third, err := h.svc.StageDelete(b.ID)
	if err != nil {
		t.Fatal(err)
	}

	task, _ := h.svc.Store().Get(a.ID)
	if task.Status != valueobject.StatusDone {
		t.Errorf("local status = %s, want done", task.Status)
	}
	if _, ok := h.svc.Store().Get(b.ID); ok {
		t.Error("b should already be gone locally")
	}

	ctx := context.Background()
	for _, c := range []Commit{third, second, first} {
		if err := c(ctx); err != nil {
			t.Fatalf("commit failed: %v", err)
		}
	}

	if calls := h.docs.Calls(); len(calls) != 2+3 {
		t.Errorf("expected 3 remote writes after the seeds, got %d", len(calls)-2)
	}
}
