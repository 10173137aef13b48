package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/domain/exceptions"
	"todoapp/internal/core/ports"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

const idLockStripes = 64

type Option func(*TasksRepository)

// WithStrictRemoteErrors makes GetTask return exceptions.ErrRemoteUnavailable
// when the remote lookup cannot be performed, instead of reporting the task
// as not found.
func WithStrictRemoteErrors() Option {
	return func(r *TasksRepository) {
		r.strictRemoteErrors = true
	}
}

// TasksRepository serves task reads and writes from an in-memory cache backed
// by a local and a remote data source. Writes go to remote, then local, then
// the cache. Bulk reads are answered from the cache until it is marked dirty.
type TasksRepository struct {
	remote             ports.TasksDataSource
	local              ports.TasksDataSource
	log                *zap.Logger
	strictRemoteErrors bool

	// Bulk operations hold opMu exclusively; single-task operations hold it
	// shared plus the stripe lock of their id.
	opMu    sync.RWMutex
	idLocks [idLockStripes]sync.Mutex

	mu     sync.RWMutex
	cached map[string]*entities.Task
	order  []string
	loaded bool
	dirty  bool
}

var _ ports.TasksRepository = (*TasksRepository)(nil)

func NewTasksRepository(remote, local ports.TasksDataSource, log *zap.Logger, opts ...Option) (*TasksRepository, error) {
	if remote == nil {
		return nil, errors.New("remote data source is nil")
	}
	if local == nil {
		return nil, errors.New("local data source is nil")
	}
	if log == nil {
		return nil, errors.New("logger is nil")
	}
	r := &TasksRepository{
		remote: remote,
		local:  local,
		log:    log,
		cached: make(map[string]*entities.Task),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *TasksRepository) GetTasks(ctx context.Context, forceUpdate bool) ([]*entities.Task, error) {
	r.log.Debug("repository: get tasks", zap.Bool("force_update", forceUpdate))
	if !forceUpdate {
		if tasks, ok := r.cachedTasks(); ok {
			return tasks, nil
		}
	}

	r.opMu.Lock()
	defer r.opMu.Unlock()

	// A concurrent caller may have refilled the cache while we waited.
	if !forceUpdate {
		if tasks, ok := r.cachedTasks(); ok {
			return tasks, nil
		}
	}

	tasks, err := r.remote.GetTasks(ctx)
	if err != nil {
		r.log.Warn("repository: remote get tasks failed", zap.Error(err))
		return nil, fmt.Errorf("remote get tasks: %w", err)
	}

	if err := r.replaceLocal(ctx, tasks); err != nil {
		r.log.Error("repository: refresh local tasks failed", zap.Error(err))
		return nil, fmt.Errorf("local replace tasks: %w", err)
	}

	r.resetCache(tasks)
	r.log.Debug("repository: get tasks done", zap.Int("tasks", len(tasks)))
	return append([]*entities.Task(nil), tasks...), nil
}

func (r *TasksRepository) GetTask(ctx context.Context, id string, forceUpdate bool) (*entities.Task, error) {
	r.log.Debug("repository: get task", zap.String("task_id", id), zap.Bool("force_update", forceUpdate))
	if id == "" {
		return nil, exceptions.ErrTaskIDRequired
	}
	if !forceUpdate {
		if task, ok := r.cachedTask(id); ok {
			return task, nil
		}
	}

	r.opMu.RLock()
	defer r.opMu.RUnlock()
	unlock := r.lockID(id)
	defer unlock()

	return r.getTask(ctx, id, forceUpdate)
}

func (r *TasksRepository) SaveTask(ctx context.Context, task *entities.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	r.log.Debug("repository: save task", zap.String("task_id", task.ID()))

	r.opMu.RLock()
	defer r.opMu.RUnlock()
	unlock := r.lockID(task.ID())
	defer unlock()

	err := r.writeThrough("save task", func(ds ports.TasksDataSource) error {
		return ds.SaveTask(ctx, task)
	})
	return settle(err, func() { r.cacheTask(task) })
}

func (r *TasksRepository) CompleteTask(ctx context.Context, task *entities.Task) error {
	return r.setCompleted(ctx, task, true)
}

func (r *TasksRepository) CompleteTaskByID(ctx context.Context, id string) error {
	return r.setCompletedByID(ctx, id, true)
}

func (r *TasksRepository) ActivateTask(ctx context.Context, task *entities.Task) error {
	return r.setCompleted(ctx, task, false)
}

func (r *TasksRepository) ActivateTaskByID(ctx context.Context, id string) error {
	return r.setCompletedByID(ctx, id, false)
}

func (r *TasksRepository) ClearCompletedTasks(ctx context.Context) error {
	r.log.Debug("repository: clear completed tasks")
	r.opMu.Lock()
	defer r.opMu.Unlock()

	err := r.writeThrough("clear completed tasks", func(ds ports.TasksDataSource) error {
		return ds.ClearCompletedTasks(ctx)
	})
	return settle(err, r.uncacheCompleted)
}

func (r *TasksRepository) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return exceptions.ErrTaskIDRequired
	}
	r.log.Debug("repository: delete task", zap.String("task_id", id))

	r.opMu.RLock()
	defer r.opMu.RUnlock()
	unlock := r.lockID(id)
	defer unlock()

	err := r.writeThrough("delete task", func(ds ports.TasksDataSource) error {
		return ds.DeleteTask(ctx, id)
	})
	return settle(err, func() { r.uncacheTask(id) })
}

func (r *TasksRepository) DeleteAllTasks(ctx context.Context) error {
	r.log.Debug("repository: delete all tasks")
	r.opMu.Lock()
	defer r.opMu.Unlock()

	err := r.writeThrough("delete all tasks", func(ds ports.TasksDataSource) error {
		return ds.DeleteAllTasks(ctx)
	})
	return settle(err, r.clearCache)
}

// RefreshTasks only marks the cache dirty; the next GetTasks call fetches.
func (r *TasksRepository) RefreshTasks() {
	r.log.Debug("repository: refresh tasks")
	r.markDirty()
}

func (r *TasksRepository) getTask(ctx context.Context, id string, forceUpdate bool) (*entities.Task, error) {
	if !forceUpdate {
		if task, ok := r.cachedTask(id); ok {
			return task, nil
		}

		task, err := r.local.GetTask(ctx, id)
		switch {
		case err == nil:
			r.cacheTask(task)
			return task, nil
		case !errors.Is(err, exceptions.ErrTaskNotFound):
			r.log.Warn("repository: local get task failed", zap.String("task_id", id), zap.Error(err))
			return nil, fmt.Errorf("local get task: %w", err)
		}
	}

	task, err := r.remote.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		if r.strictRemoteErrors && errors.Is(err, exceptions.ErrRemoteUnavailable) {
			return nil, fmt.Errorf("remote get task: %w", err)
		}
		r.log.Debug("repository: remote get task failed", zap.String("task_id", id), zap.Error(err))
		return nil, fmt.Errorf("get task %s: %w", id, exceptions.ErrTaskNotFound)
	}

	if err := r.local.SaveTask(ctx, task); err != nil {
		r.log.Warn("repository: local save task failed", zap.String("task_id", id), zap.Error(err))
		return nil, fmt.Errorf("local save task: %w", err)
	}
	r.cacheTask(task)
	return task, nil
}

func (r *TasksRepository) setCompleted(ctx context.Context, task *entities.Task, completed bool) error {
	if err := task.Validate(); err != nil {
		return err
	}

	r.opMu.RLock()
	defer r.opMu.RUnlock()
	unlock := r.lockID(task.ID())
	defer unlock()

	return r.writeCompleted(ctx, task, completed)
}

func (r *TasksRepository) setCompletedByID(ctx context.Context, id string, completed bool) error {
	if id == "" {
		return exceptions.ErrTaskIDRequired
	}

	r.opMu.RLock()
	defer r.opMu.RUnlock()
	unlock := r.lockID(id)
	defer unlock()

	task, err := r.getTask(ctx, id, false)
	if err != nil {
		return err
	}
	return r.writeCompleted(ctx, task, completed)
}

// writeCompleted expects the caller to hold the task's id lock.
func (r *TasksRepository) writeCompleted(ctx context.Context, task *entities.Task, completed bool) error {
	op := "activate task"
	if completed {
		op = "complete task"
	}
	r.log.Debug("repository: "+op, zap.String("task_id", task.ID()))

	err := r.writeThrough(op, func(ds ports.TasksDataSource) error {
		if completed {
			return ds.CompleteTask(ctx, task.ID())
		}
		return ds.ActivateTask(ctx, task.ID())
	})
	return settle(err, func() { r.cacheTask(task.WithCompleted(completed)) })
}

// writeThrough applies fn to remote and then local, stopping at the first
// failure. Nothing is rolled back; a local failure after a remote success
// marks the cache dirty and is reported as exceptions.ErrInconsistentState.
func (r *TasksRepository) writeThrough(op string, fn func(ds ports.TasksDataSource) error) error {
	if err := fn(r.remote); err != nil {
		r.log.Warn("repository: remote "+op+" failed", zap.Error(err))
		return fmt.Errorf("remote %s: %w", op, err)
	}
	if err := fn(r.local); err != nil {
		r.log.Error("repository: local "+op+" failed after remote write", zap.Error(err))
		r.markDirty()
		return fmt.Errorf("%w: local %s: %w", exceptions.ErrInconsistentState, op, err)
	}
	return nil
}

// settle applies a cache change once the remote write has landed, including
// when the local write then failed. The remote copy is authoritative, so the
// cache follows it and only local stays behind until the dirty refresh.
func settle(err error, apply func()) error {
	if err == nil || errors.Is(err, exceptions.ErrInconsistentState) {
		apply()
	}
	return err
}

func (r *TasksRepository) replaceLocal(ctx context.Context, tasks []*entities.Task) error {
	if replacer, ok := r.local.(ports.TasksReplacer); ok {
		return replacer.ReplaceTasks(ctx, tasks)
	}
	if err := r.local.DeleteAllTasks(ctx); err != nil {
		return err
	}
	for _, task := range tasks {
		if err := r.local.SaveTask(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

func (r *TasksRepository) lockID(id string) func() {
	m := &r.idLocks[xxhash.Sum64String(id)%idLockStripes]
	m.Lock()
	return m.Unlock
}

func (r *TasksRepository) cachedTasks() ([]*entities.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.dirty || !r.loaded || len(r.cached) == 0 {
		return nil, false
	}
	tasks := make([]*entities.Task, 0, len(r.order))
	for _, id := range r.order {
		tasks = append(tasks, r.cached[id])
	}
	return tasks, true
}

func (r *TasksRepository) cachedTask(id string) (*entities.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.cached[id]
	return task, ok
}

func (r *TasksRepository) cacheTask(task *entities.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cached[task.ID()]; !ok {
		r.order = append(r.order, task.ID())
	}
	r.cached[task.ID()] = task
}

func (r *TasksRepository) uncacheTask(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cached[id]; !ok {
		return
	}
	delete(r.cached, id)
	for i, cachedID := range r.order {
		if cachedID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *TasksRepository) uncacheCompleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	order := r.order[:0]
	for _, id := range r.order {
		if r.cached[id].IsCompleted() {
			delete(r.cached, id)
			continue
		}
		order = append(order, id)
	}
	r.order = order
}

func (r *TasksRepository) clearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cached = make(map[string]*entities.Task)
	r.order = nil
	r.loaded = false
}

func (r *TasksRepository) resetCache(tasks []*entities.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cached = make(map[string]*entities.Task, len(tasks))
	r.order = make([]string, 0, len(tasks))
	for _, task := range tasks {
		if _, ok := r.cached[task.ID()]; !ok {
			r.order = append(r.order, task.ID())
		}
		r.cached[task.ID()] = task
	}
	r.loaded = true
	r.dirty = false
}

func (r *TasksRepository) markDirty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirty = true
}
