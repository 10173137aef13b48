package repository_test

import (
	"context"
	"errors"
	"testing"

	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockDataSource struct {
	mock.Mock
}

func (m *mockDataSource) GetTasks(ctx context.Context) ([]*entities.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]*entities.Task)
	return tasks, args.Error(1)
}

func (m *mockDataSource) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*entities.Task)
	return task, args.Error(1)
}

func (m *mockDataSource) SaveTask(ctx context.Context, task *entities.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *mockDataSource) CompleteTask(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDataSource) ActivateTask(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDataSource) ClearCompletedTasks(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockDataSource) DeleteTask(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDataSource) DeleteAllTasks(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestWriteThrough_RemoteBeforeLocal(t *testing.T) {
	ctx := context.Background()
	remote := &mockDataSource{}
	local := &mockDataSource{}
	task := entities.RestoreTask("1", "Title", "", false)

	var order []string
	remote.On("SaveTask", ctx, task).Run(func(mock.Arguments) { order = append(order, "remote") }).Return(nil).Once()
	local.On("SaveTask", ctx, task).Run(func(mock.Arguments) { order = append(order, "local") }).Return(nil).Once()
	remote.On("DeleteTask", ctx, "1").Run(func(mock.Arguments) { order = append(order, "remote") }).Return(nil).Once()
	local.On("DeleteTask", ctx, "1").Run(func(mock.Arguments) { order = append(order, "local") }).Return(nil).Once()

	repo, err := repository.NewTasksRepository(remote, local, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, repo.SaveTask(ctx, task))
	require.NoError(t, repo.DeleteTask(ctx, "1"))
	require.Equal(t, []string{"remote", "local", "remote", "local"}, order)

	remote.AssertExpectations(t)
	local.AssertExpectations(t)
}

func TestWriteThrough_RemoteFailureSkipsLocal(t *testing.T) {
	ctx := context.Background()
	remote := &mockDataSource{}
	local := &mockDataSource{}
	remoteErr := errors.New("connection refused")

	remote.On("ClearCompletedTasks", ctx).Return(remoteErr).Once()
	remote.On("DeleteAllTasks", ctx).Return(remoteErr).Once()

	repo, err := repository.NewTasksRepository(remote, local, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.ErrorIs(t, repo.ClearCompletedTasks(ctx), remoteErr)
	require.ErrorIs(t, repo.DeleteAllTasks(ctx), remoteErr)

	remote.AssertExpectations(t)
	local.AssertNotCalled(t, "ClearCompletedTasks", mock.Anything)
	local.AssertNotCalled(t, "DeleteAllTasks", mock.Anything)
}

func TestCompleteTaskByID_LooksUpBeforeWriting(t *testing.T) {
	ctx := context.Background()
	remote := &mockDataSource{}
	local := &mockDataSource{}
	task := entities.RestoreTask("1", "Title", "", false)

	local.On("GetTask", ctx, "1").Return(task, nil).Once()
	remote.On("CompleteTask", ctx, "1").Return(nil).Once()
	local.On("CompleteTask", ctx, "1").Return(nil).Once()

	repo, err := repository.NewTasksRepository(remote, local, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, repo.CompleteTaskByID(ctx, "1"))
	got, err := repo.GetTask(ctx, "1", false)
	require.NoError(t, err)
	require.True(t, got.IsCompleted())

	remote.AssertExpectations(t)
	local.AssertExpectations(t)
	remote.AssertNotCalled(t, "GetTask", mock.Anything, mock.Anything)
}
