package ports

import (
	"context"

	"todoapp/internal/core/domain/entities"
)

type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterActive    TaskFilter = "active"
	FilterCompleted TaskFilter = "completed"
)

type TaskStatistics struct {
	Active           int
	Completed        int
	ActivePercent    float64
	CompletedPercent float64
}

type TaskUseCases interface {
	ListTasks(ctx context.Context, filter TaskFilter, forceUpdate bool) ([]*entities.Task, error)
	GetTask(ctx context.Context, id string) (*entities.Task, error)
	AddTask(ctx context.Context, title, description string) (*entities.Task, error)
	UpdateTask(ctx context.Context, id, title, description string) (*entities.Task, error)
	CompleteTask(ctx context.Context, id string) error
	ActivateTask(ctx context.Context, id string) error
	DeleteTask(ctx context.Context, id string) error
	ClearCompletedTasks(ctx context.Context) error
	RefreshTasks(ctx context.Context) ([]*entities.Task, error)
	Statistics(ctx context.Context) (TaskStatistics, error)
}
