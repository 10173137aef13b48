package memory

import (
	"context"
	"sync"

	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/domain/exceptions"
	"todoapp/internal/core/ports"
)

var _ ports.TasksDataSource = (*TaskDataSource)(nil)

// TaskDataSource keeps tasks in memory in insertion order.
type TaskDataSource struct {
	mu    sync.RWMutex
	tasks map[string]*entities.Task
	order []string
}

func NewTaskDataSource(tasks ...*entities.Task) *TaskDataSource {
	s := &TaskDataSource{
		tasks: make(map[string]*entities.Task),
	}
	for _, task := range tasks {
		s.put(task)
	}
	return s
}

func (s *TaskDataSource) GetTasks(ctx context.Context) ([]*entities.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*entities.Task, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.tasks[id])
	}
	return tasks, nil
}

func (s *TaskDataSource) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, exceptions.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskDataSource) SaveTask(ctx context.Context, task *entities.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(task)
	return nil
}

func (s *TaskDataSource) CompleteTask(ctx context.Context, id string) error {
	return s.setCompleted(ctx, id, true)
}

func (s *TaskDataSource) ActivateTask(ctx context.Context, id string) error {
	return s.setCompleted(ctx, id, false)
}

func (s *TaskDataSource) ClearCompletedTasks(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.order[:0]
	for _, id := range s.order {
		if s.tasks[id].IsCompleted() {
			delete(s.tasks, id)
			continue
		}
		order = append(order, id)
	}
	s.order = order
	return nil
}

func (s *TaskDataSource) DeleteTask(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return nil
	}
	delete(s.tasks, id)
	for i, storedID := range s.order {
		if storedID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *TaskDataSource) DeleteAllTasks(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]*entities.Task)
	s.order = nil
	return nil
}

func (s *TaskDataSource) setCompleted(ctx context.Context, id string, completed bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return exceptions.ErrTaskNotFound
	}
	s.tasks[id] = task.WithCompleted(completed)
	return nil
}

func (s *TaskDataSource) put(task *entities.Task) {
	if _, ok := s.tasks[task.ID()]; !ok {
		s.order = append(s.order, task.ID())
	}
	s.tasks[task.ID()] = task
}
