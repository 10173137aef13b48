//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redisstore "todoapp/internal/adapters/output/redis"
	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/domain/exceptions"
	"todoapp/internal/infrastructure/redisdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

func setupRedis(t *testing.T) *redisstore.TaskDataSource {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("6379/tcp").WithStartupTimeout(30*time.Second),
			wait.ForLog("Ready to accept connections").WithOccurrence(1).WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("Failed to start Redis testcontainer: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	client, err := redisdb.Connect(ctx, url+"/1", log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	return redisstore.NewTaskDataSource(client, prefix, log)
}

func TestTaskDataSource_CRUD(t *testing.T) {
	ds := setupRedis(t)
	ctx := context.Background()

	tasks, err := ds.GetTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = ds.GetTask(ctx, "1")
	require.ErrorIs(t, err, exceptions.ErrTaskNotFound)

	require.NoError(t, ds.SaveTask(ctx, entities.RestoreTask("1", "Buy milk", "2%", false)))
	require.NoError(t, ds.SaveTask(ctx, entities.RestoreTask("2", "Walk dog", "", true)))
	require.NoError(t, ds.SaveTask(ctx, entities.RestoreTask("1", "Buy oat milk", "", false)), "save is an upsert")

	tasks, err = ds.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "1", tasks[0].ID(), "overwrite keeps insertion position")
	assert.Equal(t, "Buy oat milk", tasks[0].Title())

	require.NoError(t, ds.CompleteTask(ctx, "1"))
	got, err := ds.GetTask(ctx, "1")
	require.NoError(t, err)
	assert.True(t, got.IsCompleted())

	require.NoError(t, ds.ActivateTask(ctx, "2"))
	require.ErrorIs(t, ds.CompleteTask(ctx, "missing"), exceptions.ErrTaskNotFound)

	require.NoError(t, ds.ClearCompletedTasks(ctx))
	tasks, err = ds.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "2", tasks[0].ID())

	require.NoError(t, ds.DeleteTask(ctx, "2"))
	require.NoError(t, ds.DeleteTask(ctx, "2"))
	require.NoError(t, ds.SaveTask(ctx, entities.RestoreTask("3", "t", "", false)))
	require.NoError(t, ds.DeleteAllTasks(ctx))
	tasks, err = ds.GetTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskDataSource_ConcurrentToggles(t *testing.T) {
	ds := setupRedis(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, ds.SaveTask(ctx, entities.RestoreTask(fmt.Sprintf("t%d", i), "task", "", false)))
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, ds.CompleteTask(ctx, fmt.Sprintf("t%d", i)))
		}(i)
	}
	wg.Wait()

	tasks, err := ds.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 10)
	for i, task := range tasks {
		assert.Equal(t, fmt.Sprintf("t%d", i), task.ID())
		assert.True(t, task.IsCompleted())
	}
}
