package testutil

import (
	"context"
	"errors"
	"sync"

	"todoapp/internal/adapters/output/memory"
	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/domain/exceptions"
	"todoapp/internal/core/ports"
)

// ErrForcedFailure is returned by FakeRepository while it is set to fail.
var ErrForcedFailure = errors.New("forced failure")

var _ ports.TasksRepository = (*FakeRepository)(nil)

// FakeRepository is an in-memory implementation of ports.TasksRepository
// without any remote or local backend.
type FakeRepository struct {
	store *memory.TaskDataSource

	mu         sync.RWMutex
	shouldFail bool
	refreshes  int
}

// NewFakeRepository creates a FakeRepository holding tasks.
func NewFakeRepository(tasks ...*entities.Task) *FakeRepository {
	return &FakeRepository{
		store: memory.NewTaskDataSource(tasks...),
	}
}

// SetShouldFail makes every following call fail with ErrForcedFailure.
func (f *FakeRepository) SetShouldFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shouldFail = fail
}

// AddTasks stores tasks directly.
func (f *FakeRepository) AddTasks(tasks ...*entities.Task) {
	for _, task := range tasks {
		_ = f.store.SaveTask(context.Background(), task)
	}
}

// Refreshes returns how many times RefreshTasks was called.
func (f *FakeRepository) Refreshes() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.refreshes
}

func (f *FakeRepository) GetTasks(ctx context.Context, _ bool) ([]*entities.Task, error) {
	if err := f.failure(); err != nil {
		return nil, err
	}
	return f.store.GetTasks(ctx)
}

func (f *FakeRepository) GetTask(ctx context.Context, id string, _ bool) (*entities.Task, error) {
	if err := f.failure(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, exceptions.ErrTaskIDRequired
	}
	return f.store.GetTask(ctx, id)
}

func (f *FakeRepository) SaveTask(ctx context.Context, task *entities.Task) error {
	if err := f.failure(); err != nil {
		return err
	}
	return f.store.SaveTask(ctx, task)
}

func (f *FakeRepository) CompleteTask(ctx context.Context, task *entities.Task) error {
	if err := f.failure(); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return err
	}
	return f.store.SaveTask(ctx, task.WithCompleted(true))
}

func (f *FakeRepository) CompleteTaskByID(ctx context.Context, id string) error {
	if err := f.failure(); err != nil {
		return err
	}
	return f.store.CompleteTask(ctx, id)
}

func (f *FakeRepository) ActivateTask(ctx context.Context, task *entities.Task) error {
	if err := f.failure(); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return err
	}
	return f.store.SaveTask(ctx, task.WithCompleted(false))
}

func (f *FakeRepository) ActivateTaskByID(ctx context.Context, id string) error {
	if err := f.failure(); err != nil {
		return err
	}
	return f.store.ActivateTask(ctx, id)
}

func (f *FakeRepository) ClearCompletedTasks(ctx context.Context) error {
	if err := f.failure(); err != nil {
		return err
	}
	return f.store.ClearCompletedTasks(ctx)
}

func (f *FakeRepository) DeleteTask(ctx context.Context, id string) error {
	if err := f.failure(); err != nil {
		return err
	}
	return f.store.DeleteTask(ctx, id)
}

func (f *FakeRepository) DeleteAllTasks(ctx context.Context) error {
	if err := f.failure(); err != nil {
		return err
	}
	return f.store.DeleteAllTasks(ctx)
}

func (f *FakeRepository) RefreshTasks() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
}

func (f *FakeRepository) failure() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.shouldFail {
		return ErrForcedFailure
	}
	return nil
}
