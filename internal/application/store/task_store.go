package store

import (
	"sync"

	"taskboard/internal/domain/entity"
	"taskboard/pkg/clock"
)

// Snapshot is a consistent copy of the store contents
type Snapshot struct {
	Tasks     []entity.Task
	IsLoading bool
	Error     string
	Version   uint64
}

// TaskStore holds the local copy of the signed-in user's tasks together with
// loading and error flags. Every operation is atomic; readers work on copies.
type TaskStore struct {
	mu        sync.RWMutex
	clock     clock.Clock
	tasks     []entity.Task
	isLoading bool
	err       string
	version   uint64
}

// NewTaskStore creates an empty store
func NewTaskStore(clk clock.Clock) *TaskStore {
	return &TaskStore{
		clock: clk,
		tasks: []entity.Task{},
	}
}

// ReplaceAll sets the authoritative snapshot and clears loading and error
func (s *TaskStore) ReplaceAll(tasks []entity.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = cloneTasks(tasks)
	s.isLoading = false
	s.err = ""
	s.version++
}

// InsertOne prepends a task
func (s *TaskStore) InsertOne(task entity.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]entity.Task, 0, len(s.tasks)+1)
	next = append(next, task.Clone())
	next = append(next, s.tasks...)
	s.tasks = next
	s.version++
}

// PatchOne merges patch into the task with the given id and bumps UpdatedAt.
// It reports false, without error, when the id is absent.
func (s *TaskStore) PatchOne(id string, patch entity.TaskPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	s.tasks[i].Apply(patch, s.clock.Now())
	s.version++
	return true
}

// RemoveOne deletes the task with the given id; absent ids are ignored
func (s *TaskStore) RemoveOne(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.version++
	return true
}

// SetLoading sets the loading flag
func (s *TaskStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isLoading = loading
	s.version++
}

// SetError records an error message and clears the loading flag
func (s *TaskStore) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = msg
	s.isLoading = false
	s.version++
}

// Reset empties the store, used when the identity goes away
func (s *TaskStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []entity.Task{}
	s.isLoading = false
	s.err = ""
	s.version++
}

// Snapshot returns a deep copy of the store contents
func (s *TaskStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Tasks:     cloneTasks(s.tasks),
		IsLoading: s.isLoading,
		Error:     s.err,
		Version:   s.version,
	}
}

// Tasks returns a copy of the task list
func (s *TaskStore) Tasks() []entity.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneTasks(s.tasks)
}

// Get returns a copy of the task with the given id
func (s *TaskStore) Get(id string) (entity.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return entity.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Version increments on every mutation
func (s *TaskStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}

func (s *TaskStore) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []entity.Task) []entity.Task {
	out := make([]entity.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
