package grpc

import (
	"context"
	"strings"

	"todoapp/internal/core/ports"
	"todoapp/internal/mapper"
	tasksv1 "todoapp/pkg/grpc/tasks/v1"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// TaskServer exposes a TasksDataSource as tasks.v1.TaskDataService.
type TaskServer struct {
	tasksv1.UnimplementedTaskDataServiceServer
	store ports.TasksDataSource
	log   *zap.Logger
}

func NewTaskServer(store ports.TasksDataSource, log *zap.Logger) *TaskServer {
	if log == nil {
		panic("logger is nil")
	}
	if store == nil {
		log.Fatal("task data source is nil")
	}
	return &TaskServer{
		store: store,
		log:   log,
	}
}

func (s *TaskServer) GetTasks(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	s.log.Debug("grpc: get tasks")
	tasks, err := s.store.GetTasks(ctx)
	if err != nil {
		s.log.Error("grpc: get tasks failed", zap.Error(err))
		return nil, mapper.Error(err)
	}
	s.log.Debug("grpc: get tasks done", zap.Int("tasks", len(tasks)))
	return mapper.Tasks(tasks), nil
}

func (s *TaskServer) GetTask(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := taskID(req)
	if err != nil {
		s.log.Warn("grpc: get task validation failed", zap.Error(err))
		return nil, err
	}
	s.log.Debug("grpc: get task", zap.String("task_id", id))

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		s.log.Debug("grpc: get task failed", zap.String("task_id", id), zap.Error(err))
		return nil, mapper.Error(err)
	}
	return mapper.Task(task), nil
}

func (s *TaskServer) SaveTask(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	task, err := mapper.TaskFromStruct(req)
	if err != nil {
		s.log.Warn("grpc: save task validation failed", zap.Error(err))
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	s.log.Info("grpc: save task", zap.String("task_id", task.ID()))

	if err := s.store.SaveTask(ctx, task); err != nil {
		s.log.Error("grpc: save task failed", zap.Error(err))
		return nil, mapper.Error(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *TaskServer) CompleteTask(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return s.byID(ctx, "complete task", req, s.store.CompleteTask)
}

func (s *TaskServer) ActivateTask(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return s.byID(ctx, "activate task", req, s.store.ActivateTask)
}

func (s *TaskServer) DeleteTask(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return s.byID(ctx, "delete task", req, s.store.DeleteTask)
}

func (s *TaskServer) ClearCompletedTasks(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.log.Info("grpc: clear completed tasks")
	if err := s.store.ClearCompletedTasks(ctx); err != nil {
		s.log.Error("grpc: clear completed tasks failed", zap.Error(err))
		return nil, mapper.Error(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *TaskServer) DeleteAllTasks(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.log.Info("grpc: delete all tasks")
	if err := s.store.DeleteAllTasks(ctx); err != nil {
		s.log.Error("grpc: delete all tasks failed", zap.Error(err))
		return nil, mapper.Error(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *TaskServer) byID(ctx context.Context, op string, req *wrapperspb.StringValue, fn func(context.Context, string) error) (*emptypb.Empty, error) {
	id, err := taskID(req)
	if err != nil {
		s.log.Warn("grpc: "+op+" validation failed", zap.Error(err))
		return nil, err
	}
	s.log.Info("grpc: "+op, zap.String("task_id", id))

	if err := fn(ctx, id); err != nil {
		s.log.Warn("grpc: "+op+" failed", zap.String("task_id", id), zap.Error(err))
		return nil, mapper.Error(err)
	}
	return &emptypb.Empty{}, nil
}

func taskID(req *wrapperspb.StringValue) (string, error) {
	id := strings.TrimSpace(req.GetValue())
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "task id is required")
	}
	return id, nil
}
