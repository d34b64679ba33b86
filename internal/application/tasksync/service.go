package tasksync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"taskboard/internal/application/dragdrop"
	"taskboard/internal/application/dto"
	"taskboard/internal/application/notify"
	"taskboard/internal/application/store"
	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/repository"
	"taskboard/internal/domain/service"
)

// Commit performs the remote half of a staged mutation. On failure it has
// already notified the user and resynchronized the store.
type Commit func(ctx context.Context) error

// Service keeps the task store in step with the remote collection of the
// signed-in user. Local mutations are applied optimistically; a failed
// remote call is reconciled by refetching everything.
type Service struct {
	gateway    repository.TaskGateway
	store      *store.TaskStore
	validation *service.ValidationService
	notifier   notify.Notifier
	logger     *slog.Logger
	policy     FetchFailurePolicy

	mu    sync.Mutex
	owner string
	epoch uint64
	state State
}

// NewService creates a new synchronization service
func NewService(
	gateway repository.TaskGateway,
	taskStore *store.TaskStore,
	validation *service.ValidationService,
	notifier notify.Notifier,
	logger *slog.Logger,
	policy FetchFailurePolicy,
) *Service {
	if policy == "" {
		policy = KeepLastGood
	}
	return &Service{
		gateway:    gateway,
		store:      taskStore,
		validation: validation,
		notifier:   notifier,
		logger:     logger.With("component", "tasksync"),
		policy:     policy,
		state:      StateUnauthenticated,
	}
}

// Store returns the task store the service writes to
func (s *Service) Store() *store.TaskStore {
	return s.store
}

// State returns the current synchronization state
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Owner returns the current identity, empty when signed out
func (s *Service) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

// SetIdentity switches to ownerID. An empty id signs out and empties the
// store; a new id empties the store and fetches that owner's tasks.
func (s *Service) SetIdentity(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	if ownerID == s.owner && s.state != StateUnauthenticated {
		s.mu.Unlock()
		return nil
	}

	s.owner = ownerID
	s.epoch++
	s.store.Reset()

	if ownerID == "" {
		s.transition(StateUnauthenticated)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// Refresh refetches the owner's tasks and replaces the local snapshot
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	owner, epoch := s.owner, s.epoch
	if owner == "" {
		s.mu.Unlock()
		return entity.ErrNotAuthenticated
	}
	s.transition(StateFetching)
	s.store.SetLoading(true)
	s.mu.Unlock()

	tasks, err := s.gateway.List(ctx, owner)

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		s.logger.Debug("discarding stale fetch", "owner", owner, "epoch", epoch)
		return nil
	}

	if err != nil {
		s.transition(StateError)
		if s.policy == ClearOnError {
			s.store.ReplaceAll(nil)
		}
		s.store.SetError(err.Error())
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}

	s.store.ReplaceAll(tasks)
	s.transition(StateSynced)
	return nil
}

// Create validates in, stores it remotely and inserts the stored task at
// the head of the local list. Nothing is inserted before the store answers.
func (s *Service) Create(ctx context.Context, in entity.CreateTaskInput) (*entity.Task, error) {
	owner, epoch, err := s.identity()
	if err != nil {
		return nil, err
	}

	if err := s.validation.ValidateCreate(in); err != nil {
		return nil, err
	}

	task, err := s.gateway.Create(ctx, owner, in)
	if err != nil {
		s.notifier.Notify(notify.Failure("", "Failed to create task", err))
		return nil, err
	}

	s.mu.Lock()
	if epoch == s.epoch {
		s.store.InsertOne(*task)
	}
	s.mu.Unlock()

	s.notifier.Notify(notify.Success(task.ID, "Task created"))
	return task, nil
}

// CreateFromRequest validates a create request and creates the task
func (s *Service) CreateFromRequest(ctx context.Context, req dto.CreateTaskRequest) (*entity.Task, error) {
	if err := s.validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	in, err := req.ToInput()
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, in)
}

// StageEdit applies patch to the local task and returns the remote commit
func (s *Service) StageEdit(taskID string, patch entity.TaskPatch) (Commit, error) {
	owner, epoch, err := s.identity()
	if err != nil {
		return nil, err
	}

	current, ok := s.store.Get(taskID)
	if !ok {
		return nil, entity.ErrTaskNotFound
	}
	if err := s.validation.ValidatePatch(current, patch); err != nil {
		return nil, err
	}

	s.store.PatchOne(taskID, patch)

	return s.commit(epoch, taskID, "Task updated", "Failed to update task", func(ctx context.Context) error {
		return s.gateway.Update(ctx, owner, taskID, patch)
	}), nil
}

// StageDelete removes the local task and returns the remote commit
func (s *Service) StageDelete(taskID string) (Commit, error) {
	owner, epoch, err := s.identity()
	if err != nil {
		return nil, err
	}

	if !s.store.RemoveOne(taskID) {
		return nil, entity.ErrTaskNotFound
	}

	return s.commit(epoch, taskID, "Task deleted", "Failed to delete task", func(ctx context.Context) error {
		return s.gateway.Delete(ctx, owner, taskID)
	}), nil
}

// StageMove resolves a drop of draggedID onto targetID. It returns a nil
// Commit when the drop changes nothing.
func (s *Service) StageMove(draggedID, targetID string) (Commit, error) {
	if _, _, err := s.identity(); err != nil {
		return nil, err
	}

	intent, ok := dragdrop.Resolve(s.store.Tasks(), draggedID, targetID)
	if !ok {
		s.logger.Debug("drop ignored", "task", draggedID, "target", targetID)
		return nil, nil
	}

	s.logger.Debug("drop resolved", "task", intent.TaskID, "from", intent.From, "to", intent.To)
	return s.StageEdit(intent.TaskID, intent.Patch)
}

// Edit stages and commits a patch
func (s *Service) Edit(ctx context.Context, taskID string, patch entity.TaskPatch) error {
	commit, err := s.StageEdit(taskID, patch)
	if err != nil {
		return err
	}
	return commit(ctx)
}

// EditFromRequest validates an update request and edits the task
func (s *Service) EditFromRequest(ctx context.Context, taskID string, req dto.UpdateTaskRequest) error {
	if err := s.validation.ValidateStruct(req); err != nil {
		return err
	}
	patch, err := req.ToPatch()
	if err != nil {
		return err
	}
	return s.Edit(ctx, taskID, patch)
}

// Delete stages and commits a deletion
func (s *Service) Delete(ctx context.Context, taskID string) error {
	commit, err := s.StageDelete(taskID)
	if err != nil {
		return err
	}
	return commit(ctx)
}

// Move stages and commits a drop. It reports whether a status change was issued.
func (s *Service) Move(ctx context.Context, draggedID, targetID string) (bool, error) {
	commit, err := s.StageMove(draggedID, targetID)
	if err != nil || commit == nil {
		return false, err
	}
	return true, commit(ctx)
}

// MoveFromRequest validates a move request and moves the task
func (s *Service) MoveFromRequest(ctx context.Context, req dto.MoveTaskRequest) (bool, error) {
	if err := s.validation.ValidateStruct(req); err != nil {
		return false, err
	}
	return s.Move(ctx, req.TaskID, req.TargetID)
}

func (s *Service) commit(epoch uint64, taskID, okMsg, failMsg string, call func(ctx context.Context) error) Commit {
	return func(ctx context.Context) error {
		if err := call(ctx); err != nil {
			s.notifier.Notify(notify.Failure(taskID, failMsg, err))
			s.reconcile(ctx, epoch)
			return err
		}
		s.notifier.Notify(notify.Success(taskID, okMsg))
		return nil
	}
}

// reconcile refetches after a failed commit, unless the identity changed
func (s *Service) reconcile(ctx context.Context, epoch uint64) {
	s.mu.Lock()
	current := s.epoch
	s.mu.Unlock()

	if current != epoch {
		return
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("reconcile fetch failed", "error", err)
	}
}

func (s *Service) identity() (string, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner == "" {
		return "", 0, entity.ErrNotAuthenticated
	}
	return s.owner, s.epoch, nil
}

// transition must be called with s.mu held
func (s *Service) transition(next State) {
	if s.state == next {
		return
	}
	s.logger.Info("sync state changed", "from", s.state.String(), "to", next.String(), "owner", s.owner)
	s.state = next
}
