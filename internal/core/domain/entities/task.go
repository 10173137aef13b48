package entities

import (
	"strings"

	"todoapp/internal/core/domain/exceptions"

	"github.com/google/uuid"
)

// Task is immutable: modifiers return a copy, so a *Task can be shared
// between the repository cache and its callers.
type Task struct {
	id          string
	title       string
	description string
	completed   bool
}

func NewTask(title, description string) *Task {
	return &Task{
		id:          uuid.NewString(),
		title:       title,
		description: description,
	}
}

func RestoreTask(id, title, description string, completed bool) *Task {
	return &Task{
		id:          id,
		title:       title,
		description: description,
		completed:   completed,
	}
}

func (t *Task) ID() string {
	return t.id
}

func (t *Task) Title() string {
	return t.title
}

func (t *Task) Description() string {
	return t.description
}

func (t *Task) IsCompleted() bool {
	return t.completed
}

func (t *Task) IsActive() bool {
	return !t.completed
}

// IsEmpty reports whether both title and description are blank.
func (t *Task) IsEmpty() bool {
	return strings.TrimSpace(t.title) == "" && strings.TrimSpace(t.description) == ""
}

// TitleForList falls back to the description when the title is blank.
func (t *Task) TitleForList() string {
	if strings.TrimSpace(t.title) != "" {
		return t.title
	}
	return t.description
}

func (t *Task) WithCompleted(completed bool) *Task {
	c := *t
	c.completed = completed
	return &c
}

func (t *Task) WithDetails(title, description string) *Task {
	c := *t
	c.title = title
	c.description = description
	return &c
}

func (t *Task) Validate() error {
	if t == nil {
		return exceptions.ErrTaskNil
	}
	if strings.TrimSpace(t.id) == "" {
		return exceptions.ErrTaskIDRequired
	}
	return nil
}
