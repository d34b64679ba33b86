package notify

import (
	"log/slog"
	"sync"
)

// Level is the severity of a notification
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notification is a transient user-facing message about a mutation
type Notification struct {
	Level   Level
	Message string
	TaskID  string
	Err     error
}

// Success builds a success notification
func Success(taskID, message string) Notification {
	return Notification{Level: LevelSuccess, Message: message, TaskID: taskID}
}

// Failure builds a failure notification
func Failure(taskID, message string, err error) Notification {
	return Notification{Level: LevelError, Message: message, TaskID: taskID, Err: err}
}

// Notifier receives notifications
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to Notifier
type Func func(n Notification)

// Notify calls f(n)
func (f Func) Notify(n Notification) {
	f(n)
}

// Hub logs every notification and fans it out to subscribed listeners
type Hub struct {
	mu        sync.RWMutex
	listeners map[int]Notifier
	nextID    int
	logger    *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		listeners: make(map[int]Notifier),
		logger:    logger.With("component", "notify"),
	}
}

// Subscribe registers a listener and returns a function that removes it
func (h *Hub) Subscribe(n Notifier) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners[id] = n

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Notify implements Notifier
func (h *Hub) Notify(n Notification) {
	if n.Level == LevelError {
		h.logger.Error(n.Message, "task", n.TaskID, "error", n.Err)
	} else {
		h.logger.Info(n.Message, "task", n.TaskID)
	}

	h.mu.RLock()
	listeners := make([]Notifier, 0, len(h.listeners))
	for _, l := range h.listeners {
		listeners = append(listeners, l)
	}
	h.mu.RUnlock()

	for _, l := range listeners {
		l.Notify(n)
	}
}

// Recorder collects notifications; useful for tests and batch commands
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All returns the recorded notifications
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}
