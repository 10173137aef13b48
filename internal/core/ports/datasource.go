package ports

import (
	"context"

	"todoapp/internal/core/domain/entities"
)

// TasksDataSource is the CRUD surface shared by the local and remote stores.
// GetTask fails with exceptions.ErrTaskNotFound for an unknown id; GetTasks
// returns an empty slice when there is nothing stored.
type TasksDataSource interface {
	GetTasks(ctx context.Context) ([]*entities.Task, error)
	GetTask(ctx context.Context, id string) (*entities.Task, error)
	SaveTask(ctx context.Context, task *entities.Task) error
	CompleteTask(ctx context.Context, id string) error
	ActivateTask(ctx context.Context, id string) error
	ClearCompletedTasks(ctx context.Context) error
	DeleteTask(ctx context.Context, id string) error
	DeleteAllTasks(ctx context.Context) error
}

// TasksReplacer is implemented by data sources that can overwrite their
// whole task set in one step.
type TasksReplacer interface {
	ReplaceTasks(ctx context.Context, tasks []*entities.Task) error
}
