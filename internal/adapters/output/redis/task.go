package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/domain/exceptions"
	"todoapp/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const maxTxRetries = 10

var _ ports.TasksDataSource = (*TaskDataSource)(nil)

type taskRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// TaskDataSource stores tasks as JSON records in a hash and keeps insertion
// order in a sorted set scored by a sequence counter.
type TaskDataSource struct {
	client   redis.UniversalClient
	dataKey  string
	orderKey string
	seqKey   string
	log      *zap.Logger
}

func NewTaskDataSource(client redis.UniversalClient, prefix string, log *zap.Logger) *TaskDataSource {
	if log == nil {
		panic("logger is nil")
	}
	if client == nil {
		log.Fatal("redis client is nil")
	}
	if prefix == "" {
		prefix = "tasks"
	}
	return &TaskDataSource{
		client:   client,
		dataKey:  prefix + ":data",
		orderKey: prefix + ":order",
		seqKey:   prefix + ":seq",
		log:      log,
	}
}

func (s *TaskDataSource) GetTasks(ctx context.Context) ([]*entities.Task, error) {
	ids, err := s.client.ZRange(ctx, s.orderKey, 0, -1).Result()
	if err != nil {
		s.log.Error("redis: failed to list task ids", zap.Error(err))
		return nil, err
	}
	if len(ids) == 0 {
		return []*entities.Task{}, nil
	}

	values, err := s.client.HMGet(ctx, s.dataKey, ids...).Result()
	if err != nil {
		s.log.Error("redis: failed to load tasks", zap.Error(err))
		return nil, err
	}

	tasks := make([]*entities.Task, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// removed between ZRANGE and HMGET
			continue
		}
		task, err := decodeTask(raw)
		if err != nil {
			return nil, fmt.Errorf("decode task %s: %w", ids[i], err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *TaskDataSource) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	raw, err := s.client.HGet(ctx, s.dataKey, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, exceptions.ErrTaskNotFound
		}
		s.log.Error("redis: failed to get task", zap.String("task_id", id), zap.Error(err))
		return nil, err
	}
	return decodeTask(raw)
}

func (s *TaskDataSource) SaveTask(ctx context.Context, task *entities.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	raw, err := encodeTask(task)
	if err != nil {
		return err
	}

	seq, err := s.client.Incr(ctx, s.seqKey).Result()
	if err != nil {
		s.log.Error("redis: failed to allocate sequence", zap.Error(err))
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.dataKey, task.ID(), raw)
		pipe.ZAddNX(ctx, s.orderKey, redis.Z{Score: float64(seq), Member: task.ID()})
		return nil
	})
	if err != nil {
		s.log.Error("redis: failed to save task", zap.String("task_id", task.ID()), zap.Error(err))
		return err
	}
	return nil
}

func (s *TaskDataSource) CompleteTask(ctx context.Context, id string) error {
	return s.setCompleted(ctx, id, true)
}

func (s *TaskDataSource) ActivateTask(ctx context.Context, id string) error {
	return s.setCompleted(ctx, id, false)
}

func (s *TaskDataSource) ClearCompletedTasks(ctx context.Context) error {
	err := s.withRetry(ctx, func(tx *redis.Tx) error {
		all, err := tx.HGetAll(ctx, s.dataKey).Result()
		if err != nil {
			return err
		}

		var completed []string
		for id, raw := range all {
			task, err := decodeTask(raw)
			if err != nil {
				return fmt.Errorf("decode task %s: %w", id, err)
			}
			if task.IsCompleted() {
				completed = append(completed, id)
			}
		}
		if len(completed) == 0 {
			return nil
		}

		members := make([]any, 0, len(completed))
		for _, id := range completed {
			members = append(members, id)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HDel(ctx, s.dataKey, completed...)
			pipe.ZRem(ctx, s.orderKey, members...)
			return nil
		})
		return err
	})
	if err != nil {
		s.log.Error("redis: failed to clear completed tasks", zap.Error(err))
	}
	return err
}

func (s *TaskDataSource) DeleteTask(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.dataKey, id)
		pipe.ZRem(ctx, s.orderKey, id)
		return nil
	})
	if err != nil {
		s.log.Error("redis: failed to delete task", zap.String("task_id", id), zap.Error(err))
	}
	return err
}

func (s *TaskDataSource) DeleteAllTasks(ctx context.Context) error {
	if err := s.client.Del(ctx, s.dataKey, s.orderKey).Err(); err != nil {
		s.log.Error("redis: failed to delete all tasks", zap.Error(err))
		return err
	}
	return nil
}

func (s *TaskDataSource) setCompleted(ctx context.Context, id string, completed bool) error {
	err := s.withRetry(ctx, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, s.dataKey, id).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return exceptions.ErrTaskNotFound
			}
			return err
		}
		task, err := decodeTask(raw)
		if err != nil {
			return err
		}
		updated, err := encodeTask(task.WithCompleted(completed))
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.dataKey, id, updated)
			return nil
		})
		return err
	})
	if err != nil && !errors.Is(err, exceptions.ErrTaskNotFound) {
		s.log.Error("redis: failed to update task completion", zap.String("task_id", id), zap.Error(err))
	}
	return err
}

// withRetry runs fn as an optimistic transaction watching the data hash.
func (s *TaskDataSource) withRetry(ctx context.Context, fn func(tx *redis.Tx) error) error {
	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, fn, s.dataKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("redis transaction on %s: too many conflicts", s.dataKey)
}

func encodeTask(task *entities.Task) (string, error) {
	data, err := json.Marshal(taskRecord{
		ID:          task.ID(),
		Title:       task.Title(),
		Description: task.Description(),
		Completed:   task.IsCompleted(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal task: %w", err)
	}
	return string(data), nil
}

func decodeTask(raw string) (*entities.Task, error) {
	var rec taskRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return entities.RestoreTask(rec.ID, rec.Title, rec.Description, rec.Completed), nil
}
