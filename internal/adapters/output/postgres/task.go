package postgres

import (
	"context"
	"errors"
	"fmt"

	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/domain/exceptions"
	"todoapp/internal/core/ports"
	"todoapp/internal/infrastructure/db"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var taskColumns = []string{"id", "title", "description", "completed"}

var (
	_ ports.TasksDataSource = (*TaskDataSource)(nil)
	_ ports.TasksReplacer   = (*TaskDataSource)(nil)
)

// TaskDataSource is the local tasks store backed by Postgres.
type TaskDataSource struct {
	db  db.Querier
	uow ports.UnitOfWorkManager
	log *zap.Logger
}

// NewTaskDataSource creates a data source over q. uow may be nil when q is
// already a transaction; ReplaceTasks then runs directly on q.
func NewTaskDataSource(q db.Querier, uow ports.UnitOfWorkManager, log *zap.Logger) *TaskDataSource {
	if log == nil {
		panic("logger is nil")
	}
	if q == nil {
		log.Fatal("database querier is nil")
	}
	return &TaskDataSource{
		db:  q,
		uow: uow,
		log: log,
	}
}

func (r *TaskDataSource) GetTasks(ctx context.Context) ([]*entities.Task, error) {
	query := `SELECT id, title, description, completed FROM tasks ORDER BY seq`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("postgres: failed to list tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*entities.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			r.log.Error("postgres: failed to scan task row", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("postgres: failed to iterate task rows", zap.Error(err))
		return nil, err
	}

	return tasks, nil
}

func (r *TaskDataSource) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	query := `SELECT id, title, description, completed FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, exceptions.ErrTaskNotFound
		}
		r.log.Error("postgres: failed to get task", zap.String("task_id", id), zap.Error(err))
		return nil, err
	}
	return task, nil
}

func (r *TaskDataSource) SaveTask(ctx context.Context, task *entities.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO tasks (id, title, description, completed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, description = EXCLUDED.description, completed = EXCLUDED.completed`

	if _, err := r.db.Exec(ctx, query, task.ID(), task.Title(), task.Description(), task.IsCompleted()); err != nil {
		r.log.Error("postgres: failed to save task", zap.String("task_id", task.ID()), zap.Error(err))
		return err
	}
	return nil
}

func (r *TaskDataSource) CompleteTask(ctx context.Context, id string) error {
	return r.setCompleted(ctx, id, true)
}

func (r *TaskDataSource) ActivateTask(ctx context.Context, id string) error {
	return r.setCompleted(ctx, id, false)
}

func (r *TaskDataSource) ClearCompletedTasks(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE completed = TRUE`); err != nil {
		r.log.Error("postgres: failed to clear completed tasks", zap.Error(err))
		return err
	}
	return nil
}

func (r *TaskDataSource) DeleteTask(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		r.log.Error("postgres: failed to delete task", zap.String("task_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (r *TaskDataSource) DeleteAllTasks(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM tasks`); err != nil {
		r.log.Error("postgres: failed to delete all tasks", zap.Error(err))
		return err
	}
	return nil
}

// ReplaceTasks overwrites the table with tasks in a single transaction.
func (r *TaskDataSource) ReplaceTasks(ctx context.Context, tasks []*entities.Task) error {
	if r.uow == nil {
		return r.replace(ctx, tasks)
	}
	return r.uow.Do(ctx, func(uow ports.UnitOfWork) error {
		tx, ok := uow.Repositories().Tasks.(*TaskDataSource)
		if !ok {
			return fmt.Errorf("unexpected transactional data source %T", uow.Repositories().Tasks)
		}
		return tx.replace(ctx, tasks)
	})
}

func (r *TaskDataSource) replace(ctx context.Context, tasks []*entities.Task) error {
	if err := r.DeleteAllTasks(ctx); err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}
	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			return err
		}
	}

	copied, err := r.db.CopyFrom(ctx, pgx.Identifier{"tasks"}, taskColumns, pgx.CopyFromSlice(len(tasks), func(i int) ([]any, error) {
		task := tasks[i]
		return []any{task.ID(), task.Title(), task.Description(), task.IsCompleted()}, nil
	}))
	if err != nil {
		r.log.Error("postgres: failed to copy tasks", zap.Error(err))
		return err
	}
	r.log.Debug("postgres: tasks replaced", zap.Int64("rows", copied))
	return nil
}

func (r *TaskDataSource) setCompleted(ctx context.Context, id string, completed bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE tasks SET completed = $2 WHERE id = $1`, id, completed)
	if err != nil {
		r.log.Error("postgres: failed to update task completion", zap.String("task_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return exceptions.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*entities.Task, error) {
	var (
		id, title, description string
		completed              bool
	)
	if err := row.Scan(&id, &title, &description, &completed); err != nil {
		return nil, err
	}
	return entities.RestoreTask(id, title, description, completed), nil
}
