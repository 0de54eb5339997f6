package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/xiaona-ai/agent-tasks/internal/task"
)

// Store is the persistence layer the engine operates over.
// Implementations: store.FileStore (JSONL file)
type Store interface {
	// Load reads the full current task set.
	Load() ([]task.Task, error)

	// Append adds a single new record.
	Append(t task.Task) error

	// Replace rewrites the full task set.
	Replace(tasks []task.Task) error
}

// Options holds defaults applied to new tasks.
type Options struct {
	DefaultPriority   int
	DefaultMaxRetries int
	DefaultTimeout    int // seconds
}

// Queue is the task engine. All operations are synchronous full
// read-mutate-write cycles against the injected store.
type Queue struct {
	mu    sync.Mutex
	store Store
	opts  Options
	now   func() time.Time
}

// New creates an engine over the given store. Zero option fields fall back
// to the stock defaults (priority 3, 3 retries, 300s timeout).
func New(store Store, opts Options) *Queue {
	if opts.DefaultPriority == 0 {
		opts.DefaultPriority = 3
	}
	if opts.DefaultMaxRetries == 0 {
		opts.DefaultMaxRetries = 3
	}
	if opts.DefaultTimeout == 0 {
		opts.DefaultTimeout = 300
	}
	return &Queue{
		store: store,
		opts:  opts,
		now:   time.Now,
	}
}

// AddRequest describes a task to create.
type AddRequest struct {
	Name        string
	Description string
	Priority    int // 0 means use the default
	Tags        []string
	DependsOn   []string
	Metadata    map[string]any
	MaxRetries  *int // nil means use the default
	Timeout     int  // seconds, 0 means use the default
	DueAt       *time.Time
}

// Add validates the request and persists a new task. The task starts out
// blocked if any dependency is not yet done (unknown ids count as not done).
func (q *Queue) Add(req AddRequest) (*task.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.add(req)
}

func (q *Queue) add(req AddRequest) (*task.Task, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	priority := req.Priority
	if priority == 0 {
		priority = q.opts.DefaultPriority
	}
	if priority < 1 || priority > 5 {
		return nil, &ValidationError{Field: "priority", Reason: fmt.Sprintf("%d is outside [1,5]", req.Priority)}
	}

	maxRetries := q.opts.DefaultMaxRetries
	if req.MaxRetries != nil {
		maxRetries = *req.MaxRetries
	}
	if maxRetries < 0 {
		return nil, &ValidationError{Field: "max_retries", Reason: "must not be negative"}
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = q.opts.DefaultTimeout
	}
	if timeout < 0 {
		return nil, &ValidationError{Field: "timeout", Reason: "must not be negative"}
	}

	seen := make(map[string]bool, len(req.DependsOn))
	for _, dep := range req.DependsOn {
		if dep == "" {
			return nil, &ValidationError{Field: "depends_on", Reason: "empty dependency id"}
		}
		if seen[dep] {
			return nil, &ValidationError{Field: "depends_on", Reason: fmt.Sprintf("duplicate dependency %s", dep)}
		}
		seen[dep] = true
	}

	t := task.Task{
		ID:          task.NewID(),
		Name:        req.Name,
		Description: req.Description,
		Status:      task.StatusPending,
		Priority:    priority,
		Tags:        req.Tags,
		DependsOn:   req.DependsOn,
		Metadata:    req.Metadata,
		MaxRetries:  maxRetries,
		Timeout:     timeout,
		DueAt:       req.DueAt,
		CreatedAt:   q.now().UTC(),
	}

	if len(t.DependsOn) > 0 {
		tasks, err := q.store.Load()
		if err != nil {
			return nil, err
		}
		if !depsMet(t.DependsOn, tasks) {
			t.Status = task.StatusBlocked
		}
	}

	if err := q.store.Append(t); err != nil {
		return nil, err
	}
	return &t, nil
}

// AddSubtask creates a task recorded as a child of parentID. When
// dependOnParent is true the child also depends on the parent and starts
// out blocked until the parent completes.
func (q *Queue) AddSubtask(parentID string, req AddRequest, dependOnParent bool) (*task.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	tasks, err := q.store.Load()
	if err != nil {
		return nil, err
	}
	if findTask(tasks, parentID) < 0 {
		return nil, notFound(parentID)
	}

	if dependOnParent {
		req.DependsOn = append(req.DependsOn, parentID)
	}
	sub, err := q.add(req)
	if err != nil {
		return nil, err
	}

	// Re-load so the appended child is part of the rewritten set.
	tasks, err = q.store.Load()
	if err != nil {
		return nil, err
	}
	i := findTask(tasks, parentID)
	if i < 0 {
		return nil, notFound(parentID)
	}
	tasks[i].Subtasks = append(tasks[i].Subtasks, sub.ID)
	if err := q.store.Replace(tasks); err != nil {
		return nil, err
	}
	return sub, nil
}

// Get returns a task by id.
func (q *Queue) Get(id string) (*task.Task, error) {
	tasks, err := q.store.Load()
	if err != nil {
		return nil, err
	}
	i := findTask(tasks, id)
	if i < 0 {
		return nil, notFound(id)
	}
	t := tasks[i]
	return &t, nil
}

// Start transitions a pending task to running.
func (q *Queue) Start(id string) (*task.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	tasks, err := q.store.Load()
	if err != nil {
		return nil, err
	}
	i := findTask(tasks, id)
	if i < 0 {
		return nil, notFound(id)
	}
	t := &tasks[i]
	if t.Status != task.StatusPending {
		return nil, &InvalidTransitionError{ID: id, From: t.Status, Op: "start"}
	}

	now := q.now().UTC()
	t.Status = task.StatusRunning
	t.StartedAt = &now

	if err := q.store.Replace(tasks); err != nil {
		return nil, err
	}
	out := *t
	return &out, nil
}

// Complete transitions a running task to done and re-evaluates every task
// that depends on it, moving blocked dependents whose dependencies are now
// all done back to pending.
func (q *Queue) Complete(id, result string) (*task.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	tasks, err := q.store.Load()
	if err != nil {
		return nil, err
	}
	i := findTask(tasks, id)
	if i < 0 {
		return nil, notFound(id)
	}
	t := &tasks[i]
	if t.Status != task.StatusRunning {
		return nil, &InvalidTransitionError{ID: id, From: t.Status, Op: "complete"}
	}

	now := q.now().UTC()
	t.Status = task.StatusDone
	t.CompletedAt = &now
	t.Result = result

	unblockDependents(id, tasks)

	if err := q.store.Replace(tasks); err != nil {
		return nil, err
	}
	out := *t
	return &out, nil
}

// Fail records a failure on a running task. While retries remain it goes
// back to pending with the retry counter bumped; otherwise it is failed
// permanently.
func (q *Queue) Fail(id, errMsg string) (*task.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	tasks, err := q.store.Load()
	if err != nil {
		return nil, err
	}
	i := findTask(tasks, id)
	if i < 0 {
		return nil, notFound(id)
	}
	t := &tasks[i]
	if t.Status != task.StatusRunning {
		return nil, &InvalidTransitionError{ID: id, From: t.Status, Op: "fail"}
	}

	t.Error = errMsg
	if t.Retries+1 <= t.MaxRetries {
		t.Retries++
		t.Status = task.StatusPending
	} else {
		now := q.now().UTC()
		t.Status = task.StatusFailed
		t.CompletedAt = &now
	}

	if err := q.store.Replace(tasks); err != nil {
		return nil, err
	}
	out := *t
	return &out, nil
}

// Cancel moves a pending, blocked or running task to cancelled.
func (q *Queue) Cancel(id string) (*task.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	tasks, err := q.store.Load()
	if err != nil {
		return nil, err
	}
	i := findTask(tasks, id)
	if i < 0 {
		return nil, notFound(id)
	}
	t := &tasks[i]
	if t.Status.Terminal() {
		return nil, &InvalidTransitionError{ID: id, From: t.Status, Op: "cancel"}
	}

	now := q.now().UTC()
	t.Status = task.StatusCancelled
	t.CompletedAt = &now

	if err := q.store.Replace(tasks); err != nil {
		return nil, err
	}
	out := *t
	return &out, nil
}

// Delete removes a task permanently, in any status. Tasks that depended on
// it stay blocked: a dangling dependency id is treated as never met.
func (q *Queue) Delete(id string) (*task.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	tasks, err := q.store.Load()
	if err != nil {
		return nil, err
	}
	i := findTask(tasks, id)
	if i < 0 {
		return nil, notFound(id)
	}
	removed := tasks[i]
	tasks = append(tasks[:i], tasks[i+1:]...)

	if err := q.store.Replace(tasks); err != nil {
		return nil, err
	}
	return &removed, nil
}

// Clear deletes every task and returns how many were removed.
func (q *Queue) Clear() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	tasks, err := q.store.Load()
	if err != nil {
		return 0, err
	}
	if err := q.store.Replace(nil); err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// findTask returns the index of id in tasks, or -1.
func findTask(tasks []task.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// depsMet reports whether every dependency id resolves to a done task.
func depsMet(deps []string, tasks []task.Task) bool {
	for _, dep := range deps {
		i := findTask(tasks, dep)
		if i < 0 || tasks[i].Status != task.StatusDone {
			return false
		}
	}
	return true
}

// unblockDependents re-checks every blocked task that depends on the
// completed id. The scan is one level of fan-out: each dependent's own
// completion triggers its own cascade later.
func unblockDependents(completedID string, tasks []task.Task) {
	for i := range tasks {
		t := &tasks[i]
		if t.Status != task.StatusBlocked || !t.DependsOnID(completedID) {
			continue
		}
		if depsMet(t.DependsOn, tasks) {
			t.Status = task.StatusPending
		}
	}
}
