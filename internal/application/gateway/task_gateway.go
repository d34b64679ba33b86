package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/repository"
	"taskboard/internal/infrastructure/persistence/mapper"
	"taskboard/pkg/clock"
)

// DocumentGateway implements repository.TaskGateway over a DocumentStore.
// Timestamps come from the local clock, not from the store.
type DocumentGateway struct {
	store  repository.DocumentStore
	clock  clock.Clock
	logger *slog.Logger
}

// NewDocumentGateway creates a new DocumentGateway
func NewDocumentGateway(store repository.DocumentStore, clk clock.Clock, logger *slog.Logger) *DocumentGateway {
	return &DocumentGateway{
		store:  store,
		clock:  clk,
		logger: logger.With("component", "gateway"),
	}
}

// List returns the owner's tasks newest first. On failure the returned slice
// is empty, never nil, and the error says why.
func (g *DocumentGateway) List(ctx context.Context, ownerID string) ([]entity.Task, error) {
	if ownerID == "" {
		return []entity.Task{}, entity.ErrMissingIdentifier
	}

	docs, err := g.store.Query(ctx, ownerID)
	if err != nil {
		g.logger.Warn("list failed", "owner", ownerID, "error", err)
		return []entity.Task{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]entity.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, mapper.TaskFromDocument(doc))
	}

	g.logger.Debug("listed tasks", "owner", ownerID, "count", len(tasks))
	return tasks, nil
}

// Create validates and stores a new task, returning it with its assigned ID
func (g *DocumentGateway) Create(ctx context.Context, ownerID string, input entity.CreateTaskInput) (*entity.Task, error) {
	if ownerID == "" {
		return nil, entity.ErrMissingIdentifier
	}

	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	doc := mapper.InputToDocument(ownerID, input, g.clock.Now())

	id, err := g.store.Insert(ctx, ownerID, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	doc.ID = id

	task := mapper.TaskFromDocument(doc)
	g.logger.Debug("created task", "owner", ownerID, "id", id)
	return &task, nil
}

// Update writes only the fields present in patch, always refreshing updatedAt
func (g *DocumentGateway) Update(ctx context.Context, ownerID, taskID string, patch entity.TaskPatch) error {
	if ownerID == "" || taskID == "" {
		return entity.ErrMissingIdentifier
	}

	fields := mapper.PatchToFieldSet(trimPatch(patch), g.clock.Now())

	if err := g.store.Patch(ctx, ownerID, taskID, fields); err != nil {
		return fmt.Errorf("failed to update task %s: %w", taskID, translate(err))
	}

	g.logger.Debug("updated task", "owner", ownerID, "id", taskID, "fields", len(fields))
	return nil
}

// Delete removes a task
func (g *DocumentGateway) Delete(ctx context.Context, ownerID, taskID string) error {
	if ownerID == "" || taskID == "" {
		return entity.ErrMissingIdentifier
	}

	if err := g.store.Remove(ctx, ownerID, taskID); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, translate(err))
	}

	g.logger.Debug("deleted task", "owner", ownerID, "id", taskID)
	return nil
}

func translate(err error) error {
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return entity.ErrTaskNotFound
	}
	return err
}

func trimPatch(p entity.TaskPatch) entity.TaskPatch {
	if p.Title != nil {
		s := strings.TrimSpace(*p.Title)
		p.Title = &s
	}
	if p.Description != nil {
		s := strings.TrimSpace(*p.Description)
		p.Description = &s
	}
	return p
}

var _ repository.TaskGateway = (*DocumentGateway)(nil)
