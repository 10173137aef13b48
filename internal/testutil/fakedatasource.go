// Package testutil provides in-memory fakes for tests.
package testutil

import (
	"context"
	"sync"

	"todoapp/internal/adapters/output/memory"
	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/ports"
)

var _ ports.TasksDataSource = (*FakeDataSource)(nil)

// FakeDataSource is an in-memory data source that counts calls and can be
// told to fail per method.
type FakeDataSource struct {
	store *memory.TaskDataSource

	mu    sync.Mutex
	calls map[string]int

	// Error injection for testing
	GetTasksErr            error
	GetTaskErr             error
	SaveTaskErr            error
	CompleteTaskErr        error
	ActivateTaskErr        error
	ClearCompletedTasksErr error
	DeleteTaskErr          error
	DeleteAllTasksErr      error
}

// NewFakeDataSource creates a FakeDataSource seeded with tasks.
func NewFakeDataSource(tasks ...*entities.Task) *FakeDataSource {
	return &FakeDataSource{
		store: memory.NewTaskDataSource(tasks...),
		calls: make(map[string]int),
	}
}

// Calls returns how many times method was invoked.
func (f *FakeDataSource) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// ResetCalls zeroes all call counters.
func (f *FakeDataSource) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[string]int)
}

// Snapshot returns the stored tasks without counting a call.
func (f *FakeDataSource) Snapshot() []*entities.Task {
	tasks, _ := f.store.GetTasks(context.Background())
	return tasks
}

func (f *FakeDataSource) GetTasks(ctx context.Context) ([]*entities.Task, error) {
	if err := f.record("GetTasks", f.GetTasksErr); err != nil {
		return nil, err
	}
	return f.store.GetTasks(ctx)
}

func (f *FakeDataSource) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	if err := f.record("GetTask", f.GetTaskErr); err != nil {
		return nil, err
	}
	return f.store.GetTask(ctx, id)
}

func (f *FakeDataSource) SaveTask(ctx context.Context, task *entities.Task) error {
	if err := f.record("SaveTask", f.SaveTaskErr); err != nil {
		return err
	}
	return f.store.SaveTask(ctx, task)
}

func (f *FakeDataSource) CompleteTask(ctx context.Context, id string) error {
	if err := f.record("CompleteTask", f.CompleteTaskErr); err != nil {
		return err
	}
	return f.store.CompleteTask(ctx, id)
}

func (f *FakeDataSource) ActivateTask(ctx context.Context, id string) error {
	if err := f.record("ActivateTask", f.ActivateTaskErr); err != nil {
		return err
	}
	return f.store.ActivateTask(ctx, id)
}

func (f *FakeDataSource) ClearCompletedTasks(ctx context.Context) error {
	if err := f.record("ClearCompletedTasks", f.ClearCompletedTasksErr); err != nil {
		return err
	}
	return f.store.ClearCompletedTasks(ctx)
}

func (f *FakeDataSource) DeleteTask(ctx context.Context, id string) error {
	if err := f.record("DeleteTask", f.DeleteTaskErr); err != nil {
		return err
	}
	return f.store.DeleteTask(ctx, id)
}

func (f *FakeDataSource) DeleteAllTasks(ctx context.Context) error {
	if err := f.record("DeleteAllTasks", f.DeleteAllTasksErr); err != nil {
		return err
	}
	return f.store.DeleteAllTasks(ctx)
}

func (f *FakeDataSource) record(method string, injected error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return injected
}
