package ports

import (
	"context"

	"todoapp/internal/core/domain/entities"
)

type TasksRepository interface {
	GetTasks(ctx context.Context, forceUpdate bool) ([]*entities.Task, error)
	GetTask(ctx context.Context, id string, forceUpdate bool) (*entities.Task, error)
	SaveTask(ctx context.Context, task *entities.Task) error
	CompleteTask(ctx context.Context, task *entities.Task) error
	CompleteTaskByID(ctx context.Context, id string) error
	ActivateTask(ctx context.Context, task *entities.Task) error
	ActivateTaskByID(ctx context.Context, id string) error
	ClearCompletedTasks(ctx context.Context) error
	DeleteTask(ctx context.Context, id string) error
	DeleteAllTasks(ctx context.Context) error
	RefreshTasks()
}
