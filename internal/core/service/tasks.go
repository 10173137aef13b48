package service

import (
	"context"
	"errors"
	"fmt"

	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/domain/exceptions"
	"todoapp/internal/core/ports"

	"go.uber.org/zap"
)

var _ ports.TaskUseCases = (*TaskService)(nil)

type TaskService struct {
	tasks ports.TasksRepository
	log   *zap.Logger
}

func NewTaskService(tasks ports.TasksRepository, log *zap.Logger) (*TaskService, error) {
	if tasks == nil {
		return nil, errors.New("tasks repository is nil")
	}
	if log == nil {
		return nil, errors.New("logger is nil")
	}
	return &TaskService{
		tasks: tasks,
		log:   log,
	}, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter ports.TaskFilter, forceUpdate bool) ([]*entities.Task, error) {
	s.log.Debug("usecase: list tasks", zap.String("filter", string(filter)), zap.Bool("force_update", forceUpdate))
	keep, err := filterFunc(filter)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.GetTasks(ctx, forceUpdate)
	if err != nil {
		s.log.Warn("usecase: list tasks failed", zap.Error(err))
		return nil, err
	}

	filtered := make([]*entities.Task, 0, len(tasks))
	for _, task := range tasks {
		if keep(task) {
			filtered = append(filtered, task)
		}
	}
	s.log.Debug("usecase: list tasks done", zap.Int("tasks", len(filtered)))
	return filtered, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	s.log.Debug("usecase: get task", zap.String("task_id", id))
	task, err := s.tasks.GetTask(ctx, id, false)
	if err != nil {
		s.log.Warn("usecase: get task failed", zap.Error(err))
		return nil, err
	}
	return task, nil
}

func (s *TaskService) AddTask(ctx context.Context, title, description string) (*entities.Task, error) {
	task := entities.NewTask(title, description)
	if task.IsEmpty() {
		return nil, exceptions.ErrTaskEmpty
	}

	s.log.Info("usecase: add task", zap.String("task_id", task.ID()))
	if err := s.tasks.SaveTask(ctx, task); err != nil {
		s.log.Warn("usecase: add task failed", zap.Error(err))
		return nil, err
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id, title, description string) (*entities.Task, error) {
	s.log.Info("usecase: update task", zap.String("task_id", id))
	task, err := s.tasks.GetTask(ctx, id, false)
	if err != nil {
		s.log.Warn("usecase: update task failed", zap.Error(err))
		return nil, err
	}

	updated := task.WithDetails(title, description)
	if updated.IsEmpty() {
		return nil, exceptions.ErrTaskEmpty
	}
	if err := s.tasks.SaveTask(ctx, updated); err != nil {
		s.log.Warn("usecase: update task failed", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *TaskService) CompleteTask(ctx context.Context, id string) error {
	s.log.Info("usecase: complete task", zap.String("task_id", id))
	if err := s.tasks.CompleteTaskByID(ctx, id); err != nil {
		s.log.Warn("usecase: complete task failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *TaskService) ActivateTask(ctx context.Context, id string) error {
	s.log.Info("usecase: activate task", zap.String("task_id", id))
	if err := s.tasks.ActivateTaskByID(ctx, id); err != nil {
		s.log.Warn("usecase: activate task failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	s.log.Info("usecase: delete task", zap.String("task_id", id))
	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		s.log.Warn("usecase: delete task failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *TaskService) ClearCompletedTasks(ctx context.Context) error {
	s.log.Info("usecase: clear completed tasks")
	if err := s.tasks.ClearCompletedTasks(ctx); err != nil {
		s.log.Warn("usecase: clear completed tasks failed", zap.Error(err))
		return err
	}
	return nil
}

// RefreshTasks invalidates the repository cache and reloads the task list.
func (s *TaskService) RefreshTasks(ctx context.Context) ([]*entities.Task, error) {
	s.log.Info("usecase: refresh tasks")
	s.tasks.RefreshTasks()
	return s.ListTasks(ctx, ports.FilterAll, false)
}

func (s *TaskService) Statistics(ctx context.Context) (ports.TaskStatistics, error) {
	tasks, err := s.tasks.GetTasks(ctx, false)
	if err != nil {
		s.log.Warn("usecase: statistics failed", zap.Error(err))
		return ports.TaskStatistics{}, err
	}
	return computeStatistics(tasks), nil
}

func computeStatistics(tasks []*entities.Task) ports.TaskStatistics {
	var stats ports.TaskStatistics
	for _, task := range tasks {
		if task.IsCompleted() {
			stats.Completed++
		} else {
			stats.Active++
		}
	}
	if total := len(tasks); total > 0 {
		stats.ActivePercent = 100 * float64(stats.Active) / float64(total)
		stats.CompletedPercent = 100 * float64(stats.Completed) / float64(total)
	}
	return stats
}

func filterFunc(filter ports.TaskFilter) (func(*entities.Task) bool, error) {
	switch filter {
	case ports.FilterAll, "":
		return func(*entities.Task) bool { return true }, nil
	case ports.FilterActive:
		return (*entities.Task).IsActive, nil
	case ports.FilterCompleted:
		return (*entities.Task).IsCompleted, nil
	default:
		return nil, fmt.Errorf("%w: %s", exceptions.ErrUnknownTaskFilter, filter)
	}
}
