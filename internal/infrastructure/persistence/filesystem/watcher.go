package filesystem

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"taskboard/pkg/filesystem"
)

// Watcher reports owners whose task documents changed on disk, including
// changes made by other processes.
type Watcher struct {
	pathBuilder *PathBuilder
	watcher     *fsnotify.Watcher
	onChange    func(ownerID string)
	logger      *slog.Logger
	done        chan struct{}
	wg          sync.WaitGroup
}

// NewWatcher creates a watcher over the store layout. onChange runs on the
// watcher goroutine.
func NewWatcher(pathBuilder *PathBuilder, logger *slog.Logger, onChange func(ownerID string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		pathBuilder: pathBuilder,
		watcher:     fw,
		onChange:    onChange,
		logger:      logger.With("component", "fs-watcher"),
		done:        make(chan struct{}),
	}, nil
}

// Start watches the owners root and every existing owner's tasks directory
func (w *Watcher) Start() error {
	root := w.pathBuilder.OwnersRoot()
	if err := filesystem.EnsureDir(root, 0755); err != nil {
		return err
	}
	if err := w.watcher.Add(root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read owners directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			w.watchOwner(filepath.Join(root, entry.Name()))
		}
	}

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Close stops the watcher and waits for the event loop to exit
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// A new owner or tasks directory needs its own watch
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if filepath.Dir(event.Name) == w.pathBuilder.OwnersRoot() {
				w.watchOwner(event.Name)
			} else if filepath.Base(event.Name) == tasksDirName {
				w.add(event.Name)
			}
		}
	}

	// Temp files of atomic writes are followed by a rename onto the real name
	if base := filepath.Base(event.Name); len(base) > 0 && base[0] == '.' {
		return
	}

	owner, ok := w.pathBuilder.OwnerFromPath(event.Name)
	if !ok {
		return
	}

	w.logger.Debug("task files changed", "owner", owner, "op", event.Op.String())
	w.onChange(owner)
}

func (w *Watcher) watchOwner(ownerDir string) {
	w.add(ownerDir)

	tasksDir := filepath.Join(ownerDir, tasksDirName)
	if info, err := os.Stat(tasksDir); err == nil && info.IsDir() {
		w.add(tasksDir)
	}
}

func (w *Watcher) add(path string) {
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("failed to watch directory", "path", path, "error", err)
	}
}
