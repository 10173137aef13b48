//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"todoapp/internal/adapters/output/postgres"
	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/domain/exceptions"
	"todoapp/internal/core/ports"
	"todoapp/internal/infrastructure/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

func setupPostgres(t *testing.T) (*postgres.TaskDataSource, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("todo"),
		tcpostgres.WithUsername("todo"),
		tcpostgres.WithPassword("todo"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("Failed to start Postgres testcontainer: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	pool, err := db.ConnectToDB(ctx, dsn, log)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.EnsureSchema(ctx, pool))

	uow := db.NewUnitOfWorkManager(pool, log, func(q db.Querier) ports.Repositories {
		return ports.Repositories{Tasks: postgres.NewTaskDataSource(q, nil, log)}
	})
	return postgres.NewTaskDataSource(pool, uow, log), pool
}

func TestTaskDataSource_CRUD(t *testing.T) {
	ds, _ := setupPostgres(t)
	ctx := context.Background()

	tasks, err := ds.GetTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = ds.GetTask(ctx, "1")
	require.ErrorIs(t, err, exceptions.ErrTaskNotFound)

	require.NoError(t, ds.SaveTask(ctx, entities.RestoreTask("1", "Buy milk", "", false)))
	require.NoError(t, ds.SaveTask(ctx, entities.RestoreTask("1", "Buy oat milk", "", false)), "save is an upsert")
	require.NoError(t, ds.SaveTask(ctx, entities.RestoreTask("2", "Walk dog", "", true)))

	got, err := ds.GetTask(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", got.Title())

	require.NoError(t, ds.SaveTask(ctx, entities.RestoreTask("0", "Call mom", "", false)))
	tasks, err = ds.GetTasks(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID())
	}
	assert.Equal(t, []string{"1", "2", "0"}, ids, "insertion order, upsert keeps position")
	require.NoError(t, ds.DeleteTask(ctx, "0"))

	require.NoError(t, ds.CompleteTask(ctx, "1"))
	require.NoError(t, ds.CompleteTask(ctx, "1"))
	got, err = ds.GetTask(ctx, "1")
	require.NoError(t, err)
	assert.True(t, got.IsCompleted())

	require.NoError(t, ds.ActivateTask(ctx, "1"))
	require.ErrorIs(t, ds.ActivateTask(ctx, "missing"), exceptions.ErrTaskNotFound)

	require.NoError(t, ds.ClearCompletedTasks(ctx))
	tasks, err = ds.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "1", tasks[0].ID())

	require.NoError(t, ds.DeleteTask(ctx, "1"))
	require.NoError(t, ds.DeleteTask(ctx, "1"))
	require.NoError(t, ds.SaveTask(ctx, entities.RestoreTask("3", "t", "", false)))
	require.NoError(t, ds.DeleteAllTasks(ctx))
	tasks, err = ds.GetTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskDataSource_ReplaceTasks(t *testing.T) {
	ds, _ := setupPostgres(t)
	ctx := context.Background()

	require.NoError(t, ds.SaveTask(ctx, entities.RestoreTask("old", "stale", "", false)))
	require.NoError(t, ds.ReplaceTasks(ctx, []*entities.Task{
		entities.RestoreTask("a", "first", "", false),
		entities.RestoreTask("b", "second", "", true),
	}))

	tasks, err := ds.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID())
	assert.True(t, tasks[1].IsCompleted())

	require.NoError(t, ds.ReplaceTasks(ctx, nil))
	tasks, err = ds.GetTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskDataSource_ReplaceTasksRollsBack(t *testing.T) {
	ds, _ := setupPostgres(t)
	ctx := context.Background()

	require.NoError(t, ds.SaveTask(ctx, entities.RestoreTask("keep", "kept", "", false)))
	err := ds.ReplaceTasks(ctx, []*entities.Task{
		entities.RestoreTask("a", "first", "", false),
		entities.RestoreTask("", "invalid", "", false),
	})
	require.True(t, errors.Is(err, exceptions.ErrTaskIDRequired), "got %v", err)

	got, err := ds.GetTask(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Title())
}
