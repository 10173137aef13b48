package mapper

import (
	"context"
	"errors"
	"fmt"

	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/domain/exceptions"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	fieldID          = "id"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldCompleted   = "completed"
)

func Task(task *entities.Task) *structpb.Struct {
	if task == nil {
		return nil
	}
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldID:          structpb.NewStringValue(task.ID()),
			fieldTitle:       structpb.NewStringValue(task.Title()),
			fieldDescription: structpb.NewStringValue(task.Description()),
			fieldCompleted:   structpb.NewBoolValue(task.IsCompleted()),
		},
	}
}

func Tasks(tasks []*entities.Task) *structpb.ListValue {
	list := &structpb.ListValue{
		Values: make([]*structpb.Value, 0, len(tasks)),
	}
	for _, task := range tasks {
		list.Values = append(list.Values, structpb.NewStructValue(Task(task)))
	}
	return list
}

func TaskFromStruct(s *structpb.Struct) (*entities.Task, error) {
	if s == nil {
		return nil, exceptions.ErrTaskNil
	}
	fields := s.GetFields()

	id, err := stringField(fields, fieldID)
	if err != nil {
		return nil, err
	}
	title, err := stringField(fields, fieldTitle)
	if err != nil {
		return nil, err
	}
	description, err := stringField(fields, fieldDescription)
	if err != nil {
		return nil, err
	}

	var completed bool
	if v, ok := fields[fieldCompleted]; ok {
		b, ok := v.GetKind().(*structpb.Value_BoolValue)
		if !ok {
			return nil, fmt.Errorf("task field %q must be a bool", fieldCompleted)
		}
		completed = b.BoolValue
	}

	task := entities.RestoreTask(id, title, description, completed)
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

func TasksFromList(list *structpb.ListValue) ([]*entities.Task, error) {
	tasks := make([]*entities.Task, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		task, err := TaskFromStruct(v.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func stringField(fields map[string]*structpb.Value, name string) (string, error) {
	v, ok := fields[name]
	if !ok {
		return "", nil
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("task field %q must be a string", name)
	}
	return s.StringValue, nil
}

// Error converts a domain error into a gRPC status error.
func Error(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, exceptions.ErrTaskNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, exceptions.ErrTaskNil),
		errors.Is(err, exceptions.ErrTaskIDRequired):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, exceptions.ErrRemoteUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// FromStatus converts a gRPC client error back into a domain error.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", exceptions.ErrRemoteUnavailable, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", exceptions.ErrTaskNotFound, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", exceptions.ErrRemoteUnavailable, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("invalid argument: %s", st.Message())
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("remote error (%s): %s", st.Code(), st.Message())
	}
}
