package queue

import (
	"errors"
	"fmt"

	"github.com/xiaona-ai/agent-tasks/internal/task"
)

// ErrNotFound indicates an operation referenced an unknown task id.
var ErrNotFound = errors.New("task not found")

// InvalidTransitionError indicates an operation that is not legal from the
// task's current status.
type InvalidTransitionError struct {
	ID   string
	From task.Status
	Op   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("task %s: cannot %s from status %q", e.ID, e.Op, e.From)
}

// ValidationError indicates a rejected Add request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func notFound(id string) error {
	return fmt.Errorf("task %s: %w", id, ErrNotFound)
}
