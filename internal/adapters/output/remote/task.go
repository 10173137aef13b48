// Package remote implements the remote tasks data source over gRPC.
package remote

import (
	"context"
	"time"

	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/ports"
	"todoapp/internal/mapper"
	tasksv1 "todoapp/pkg/grpc/tasks/v1"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// DefaultTimeout bounds every remote call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

var _ ports.TasksDataSource = (*TaskDataSource)(nil)

type TaskDataSource struct {
	client  tasksv1.TaskDataServiceClient
	timeout time.Duration
	log     *zap.Logger
}

func NewTaskDataSource(conn grpc.ClientConnInterface, timeout time.Duration, log *zap.Logger) *TaskDataSource {
	if log == nil {
		panic("logger is nil")
	}
	if conn == nil {
		log.Fatal("grpc connection is nil")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TaskDataSource{
		client:  tasksv1.NewTaskDataServiceClient(conn),
		timeout: timeout,
		log:     log,
	}
}

func (r *TaskDataSource) GetTasks(ctx context.Context) ([]*entities.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.GetTasks(ctx, &emptypb.Empty{})
	if err != nil {
		r.log.Warn("remote: get tasks failed", zap.Error(err))
		return nil, mapper.FromStatus(err)
	}
	return mapper.TasksFromList(resp)
}

func (r *TaskDataSource) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.GetTask(ctx, wrapperspb.String(id))
	if err != nil {
		return nil, mapper.FromStatus(err)
	}
	return mapper.TaskFromStruct(resp)
}

func (r *TaskDataSource) SaveTask(ctx context.Context, task *entities.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.client.SaveTask(ctx, mapper.Task(task)); err != nil {
		r.log.Warn("remote: save task failed", zap.String("task_id", task.ID()), zap.Error(err))
		return mapper.FromStatus(err)
	}
	return nil
}

func (r *TaskDataSource) CompleteTask(ctx context.Context, id string) error {
	return r.byID(ctx, id, r.client.CompleteTask)
}

func (r *TaskDataSource) ActivateTask(ctx context.Context, id string) error {
	return r.byID(ctx, id, r.client.ActivateTask)
}

func (r *TaskDataSource) DeleteTask(ctx context.Context, id string) error {
	return r.byID(ctx, id, r.client.DeleteTask)
}

func (r *TaskDataSource) ClearCompletedTasks(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.client.ClearCompletedTasks(ctx, &emptypb.Empty{}); err != nil {
		r.log.Warn("remote: clear completed tasks failed", zap.Error(err))
		return mapper.FromStatus(err)
	}
	return nil
}

func (r *TaskDataSource) DeleteAllTasks(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.client.DeleteAllTasks(ctx, &emptypb.Empty{}); err != nil {
		r.log.Warn("remote: delete all tasks failed", zap.Error(err))
		return mapper.FromStatus(err)
	}
	return nil
}

type idCall func(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)

func (r *TaskDataSource) byID(ctx context.Context, id string, call idCall) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := call(ctx, wrapperspb.String(id)); err != nil {
		r.log.Warn("remote: task call failed", zap.String("task_id", id), zap.Error(err))
		return mapper.FromStatus(err)
	}
	return nil
}
