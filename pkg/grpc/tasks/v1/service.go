// Package tasksv1 describes the tasks.v1.TaskDataService gRPC service.
//
// Messages are protobuf well-known types: a task is a structpb.Struct with
// the fields id, title, description and completed, a task list is a
// structpb.ListValue of such structs and a task id is a wrapperspb.StringValue.
package tasksv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "tasks.v1.TaskDataService"

const (
	TaskDataService_GetTasks_FullMethodName            = "/tasks.v1.TaskDataService/GetTasks"
	TaskDataService_GetTask_FullMethodName             = "/tasks.v1.TaskDataService/GetTask"
	TaskDataService_SaveTask_FullMethodName            = "/tasks.v1.TaskDataService/SaveTask"
	TaskDataService_CompleteTask_FullMethodName        = "/tasks.v1.TaskDataService/CompleteTask"
	TaskDataService_ActivateTask_FullMethodName        = "/tasks.v1.TaskDataService/ActivateTask"
	TaskDataService_ClearCompletedTasks_FullMethodName = "/tasks.v1.TaskDataService/ClearCompletedTasks"
	TaskDataService_DeleteTask_FullMethodName          = "/tasks.v1.TaskDataService/DeleteTask"
	TaskDataService_DeleteAllTasks_FullMethodName      = "/tasks.v1.TaskDataService/DeleteAllTasks"
)

type TaskDataServiceClient interface {
	GetTasks(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	GetTask(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	SaveTask(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	CompleteTask(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ActivateTask(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ClearCompletedTasks(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	DeleteTask(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	DeleteAllTasks(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type taskDataServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTaskDataServiceClient(cc grpc.ClientConnInterface) TaskDataServiceClient {
	return &taskDataServiceClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *taskDataServiceClient) GetTasks(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[emptypb.Empty, structpb.ListValue](ctx, c.cc, TaskDataService_GetTasks_FullMethodName, in, opts)
}

func (c *taskDataServiceClient) GetTask(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[wrapperspb.StringValue, structpb.Struct](ctx, c.cc, TaskDataService_GetTask_FullMethodName, in, opts)
}

func (c *taskDataServiceClient) SaveTask(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[structpb.Struct, emptypb.Empty](ctx, c.cc, TaskDataService_SaveTask_FullMethodName, in, opts)
}

func (c *taskDataServiceClient) CompleteTask(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[wrapperspb.StringValue, emptypb.Empty](ctx, c.cc, TaskDataService_CompleteTask_FullMethodName, in, opts)
}

func (c *taskDataServiceClient) ActivateTask(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[wrapperspb.StringValue, emptypb.Empty](ctx, c.cc, TaskDataService_ActivateTask_FullMethodName, in, opts)
}

func (c *taskDataServiceClient) ClearCompletedTasks(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty, emptypb.Empty](ctx, c.cc, TaskDataService_ClearCompletedTasks_FullMethodName, in, opts)
}

func (c *taskDataServiceClient) DeleteTask(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[wrapperspb.StringValue, emptypb.Empty](ctx, c.cc, TaskDataService_DeleteTask_FullMethodName, in, opts)
}

func (c *taskDataServiceClient) DeleteAllTasks(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty, emptypb.Empty](ctx, c.cc, TaskDataService_DeleteAllTasks_FullMethodName, in, opts)
}

type TaskDataServiceServer interface {
	GetTasks(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetTask(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	SaveTask(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	CompleteTask(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ActivateTask(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ClearCompletedTasks(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	DeleteTask(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	DeleteAllTasks(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

// UnimplementedTaskDataServiceServer can be embedded to keep servers
// forward compatible.
type UnimplementedTaskDataServiceServer struct{}

func (UnimplementedTaskDataServiceServer) GetTasks(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTasks not implemented")
}

func (UnimplementedTaskDataServiceServer) GetTask(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTask not implemented")
}

func (UnimplementedTaskDataServiceServer) SaveTask(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SaveTask not implemented")
}

func (UnimplementedTaskDataServiceServer) CompleteTask(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteTask not implemented")
}

func (UnimplementedTaskDataServiceServer) ActivateTask(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ActivateTask not implemented")
}

func (UnimplementedTaskDataServiceServer) ClearCompletedTasks(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearCompletedTasks not implemented")
}

func (UnimplementedTaskDataServiceServer) DeleteTask(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteTask not implemented")
}

func (UnimplementedTaskDataServiceServer) DeleteAllTasks(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteAllTasks not implemented")
}

func RegisterTaskDataServiceServer(s grpc.ServiceRegistrar, srv TaskDataServiceServer) {
	s.RegisterService(&TaskDataService_ServiceDesc, srv)
}

func unaryHandler[Req, Resp any](method string, call func(TaskDataServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TaskDataServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TaskDataServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var TaskDataService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskDataServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetTasks",
			Handler:    unaryHandler(TaskDataService_GetTasks_FullMethodName, TaskDataServiceServer.GetTasks),
		},
		{
			MethodName: "GetTask",
			Handler:    unaryHandler(TaskDataService_GetTask_FullMethodName, TaskDataServiceServer.GetTask),
		},
		{
			MethodName: "SaveTask",
			Handler:    unaryHandler(TaskDataService_SaveTask_FullMethodName, TaskDataServiceServer.SaveTask),
		},
		{
			MethodName: "CompleteTask",
			Handler:    unaryHandler(TaskDataService_CompleteTask_FullMethodName, TaskDataServiceServer.CompleteTask),
		},
		{
			MethodName: "ActivateTask",
			Handler:    unaryHandler(TaskDataService_ActivateTask_FullMethodName, TaskDataServiceServer.ActivateTask),
		},
		{
			MethodName: "ClearCompletedTasks",
			Handler:    unaryHandler(TaskDataService_ClearCompletedTasks_FullMethodName, TaskDataServiceServer.ClearCompletedTasks),
		},
		{
			MethodName: "DeleteTask",
			Handler:    unaryHandler(TaskDataService_DeleteTask_FullMethodName, TaskDataServiceServer.DeleteTask),
		},
		{
			MethodName: "DeleteAllTasks",
			Handler:    unaryHandler(TaskDataService_DeleteAllTasks_FullMethodName, TaskDataServiceServer.DeleteAllTasks),
		},
	},
	Streams: []grpc.StreamDesc{},
}
