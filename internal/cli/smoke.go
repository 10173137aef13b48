package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoapp/internal/core/domain/exceptions"
	"todoapp/internal/core/ports"

	"go.uber.org/zap"
)

// runSmoke walks one task through its whole lifecycle and removes it again.
func runSmoke(ctx context.Context, inv *invocation) error {
	log := inv.log
	tasks := inv.tasks

	log.Info("smoke test: refreshing tasks from remote")
	before, err := tasks.RefreshTasks(ctx)
	if err != nil {
		return fmt.Errorf("smoke test: refresh: %w", err)
	}

	title := fmt.Sprintf("Smoke Test Task %d", time.Now().UnixNano())
	log.Info("smoke test: creating task", zap.String("title", title))
	task, err := tasks.AddTask(ctx, title, "Temporary task for repository smoke test")
	if err != nil {
		return fmt.Errorf("smoke test: add: %w", err)
	}
	log.Info("smoke test: task created", zap.String("task_id", task.ID()))

	cleanup := true
	defer func() {
		if !cleanup {
			return
		}
		if err := tasks.DeleteTask(ctx, task.ID()); err != nil {
			log.Error("smoke test: failed to cleanup task", zap.String("task_id", task.ID()), zap.Error(err))
		}
	}()

	log.Info("smoke test: listing active tasks")
	active, err := tasks.ListTasks(ctx, ports.FilterActive, false)
	if err != nil {
		return fmt.Errorf("smoke test: list: %w", err)
	}
	if !containsID(active, task.ID()) {
		return fmt.Errorf("smoke test: task %s missing from active list", task.ID())
	}

	log.Info("smoke test: completing task", zap.String("task_id", task.ID()))
	if err := tasks.CompleteTask(ctx, task.ID()); err != nil {
		return fmt.Errorf("smoke test: complete: %w", err)
	}

	log.Info("smoke test: reloading from remote", zap.String("task_id", task.ID()))
	if _, err := tasks.RefreshTasks(ctx); err != nil {
		return fmt.Errorf("smoke test: refresh: %w", err)
	}
	got, err := tasks.GetTask(ctx, task.ID())
	if err != nil {
		return fmt.Errorf("smoke test: get after refresh: %w", err)
	}
	if !got.IsCompleted() {
		return fmt.Errorf("smoke test: task %s should be completed after refresh", task.ID())
	}

	log.Info("smoke test: activating and renaming task", zap.String("task_id", task.ID()))
	if err := tasks.ActivateTask(ctx, task.ID()); err != nil {
		return fmt.Errorf("smoke test: activate: %w", err)
	}
	updated, err := tasks.UpdateTask(ctx, task.ID(), title+" (renamed)", got.Description())
	if err != nil {
		return fmt.Errorf("smoke test: update: %w", err)
	}
	if updated.IsCompleted() {
		return fmt.Errorf("smoke test: task %s should be active after activate", task.ID())
	}

	log.Info("smoke test: deleting task", zap.String("task_id", task.ID()))
	if err := tasks.DeleteTask(ctx, task.ID()); err != nil {
		return fmt.Errorf("smoke test: delete: %w", err)
	}
	cleanup = false

	if _, err := tasks.GetTask(ctx, task.ID()); !errors.Is(err, exceptions.ErrTaskNotFound) {
		return fmt.Errorf("smoke test: deleted task %s still readable: %v", task.ID(), err)
	}

	after, err := tasks.ListTasks(ctx, ports.FilterAll, true)
	if err != nil {
		return fmt.Errorf("smoke test: final list: %w", err)
	}
	if len(after) != len(before) {
		log.Warn("smoke test: task count changed during run", zap.Int("before", len(before)), zap.Int("after", len(after)))
	}

	log.Info("smoke test: passed", zap.String("task_id", task.ID()))
	fmt.Fprintln(inv.out, "smoke test passed")
	return nil
}

func containsID[T interface{ ID() string }](tasks []T, id string) bool {
	for _, task := range tasks {
		if task.ID() == id {
			return true
		}
	}
	return false
}
