package repository

import (
	"context"

	"taskboard/internal/domain/entity"
)

// TaskGateway is the entity-level CRUD contract over a user's task collection
type TaskGateway interface {
	// List returns the owner's tasks, newest created first
	List(ctx context.Context, ownerID string) ([]entity.Task, error)

	// Create stores a new task and returns it with its store-assigned ID
	Create(ctx context.Context, ownerID string, input entity.CreateTaskInput) (*entity.Task, error)

	// Update writes only the fields present in patch
	Update(ctx context.Context, ownerID, taskID string, patch entity.TaskPatch) error

	// Delete removes a task
	Delete(ctx context.Context, ownerID, taskID string) error
}
