package task

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusBlocked   Status = "blocked" // waiting on dependencies
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// AllStatuses lists every valid status in display order.
var AllStatuses = []Status{
	StatusRunning,
	StatusPending,
	StatusBlocked,
	StatusDone,
	StatusFailed,
	StatusCancelled,
}

// ValidStatus reports whether s is a member of the closed status set.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusBlocked, StatusRunning, StatusDone, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s is a final state that no transition leaves.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed || s == StatusCancelled
}

// Task is a single unit of work tracked by the queue.
type Task struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      Status         `json:"status"`
	Priority    int            `json:"priority"` // 1..5, 5 highest
	Tags        []string       `json:"tags,omitempty"`
	DependsOn   []string       `json:"depends_on,omitempty"`
	Subtasks    []string       `json:"subtasks,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Retries     int            `json:"retries"`
	MaxRetries  int            `json:"max_retries"`
	Timeout     int            `json:"timeout,omitempty"` // seconds, advisory
	DueAt       *time.Time     `json:"due_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Result      string         `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`

	// Extra preserves fields written by newer versions so that a
	// load/save cycle never drops them.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownFields are the JSON keys owned by the Task struct itself.
// Anything else found in a record lands in Extra.
var knownFields = map[string]bool{
	"id": true, "name": true, "description": true, "status": true,
	"priority": true, "tags": true, "depends_on": true, "subtasks": true,
	"metadata": true, "retries": true, "max_retries": true, "timeout": true,
	"due_at": true, "created_at": true, "started_at": true,
	"completed_at": true, "result": true, "error": true,
}

// UnmarshalJSON decodes a task record, stashing unknown fields in Extra.
func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if knownFields[k] {
			delete(raw, k)
		}
	}

	*t = Task(a)
	if len(raw) > 0 {
		t.Extra = raw
	}
	return nil
}

// MarshalJSON encodes a task record, re-emitting any preserved Extra fields.
func (t Task) MarshalJSON() ([]byte, error) {
	type alias Task
	data, err := json.Marshal(alias(t))
	if err != nil {
		return nil, err
	}
	if len(t.Extra) == 0 {
		return data, nil
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range t.Extra {
		if _, owned := merged[k]; !owned {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if v == tag {
			return true
		}
	}
	return false
}

// DependsOnID reports whether the task lists id as a dependency.
func (t *Task) DependsOnID(id string) bool {
	for _, d := range t.DependsOn {
		if d == id {
			return true
		}
	}
	return false
}

// NewID generates a 12-character hex task identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
