package db

import (
	"context"
	"fmt"
)

// seq records insertion order; an upsert keeps the original value.
var tasksSchema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	completed   BOOLEAN NOT NULL DEFAULT FALSE,
	seq         BIGSERIAL
)`,
	`ALTER TABLE tasks ADD COLUMN IF NOT EXISTS seq BIGSERIAL`,
}

// EnsureSchema creates the tasks table when it does not exist yet.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range tasksSchema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure tasks schema: %w", err)
		}
	}
	return nil
}
