package queue

import (
	"errors"
	"sync"
	"time"

	"github.com/xiaona-ai/agent-tasks/internal/task"
)

// Common test errors
var (
	ErrMockLoad    = errors.New("mock load error")
	ErrMockAppend  = errors.New("mock append error")
	ErrMockReplace = errors.New("mock replace error")
)

// MockStore implements Store in memory for testing.
type MockStore struct {
	mu    sync.Mutex
	Tasks []task.Task

	FailLoad    bool
	FailAppend  bool
	FailReplace bool

	LoadCalls    int
	AppendCalls  int
	ReplaceCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Load() ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadCalls++
	if m.FailLoad {
		return nil, ErrMockLoad
	}
	out := make([]task.Task, len(m.Tasks))
	copy(out, m.Tasks)
	return out, nil
}

func (m *MockStore) Append(t task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls++
	if m.FailAppend {
		return ErrMockAppend
	}
	m.Tasks = append(m.Tasks, t)
	return nil
}

func (m *MockStore) Replace(tasks []task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReplaceCalls++
	if m.FailReplace {
		return ErrMockReplace
	}
	m.Tasks = make([]task.Task, len(tasks))
	copy(m.Tasks, tasks)
	return nil
}

// Get returns the stored task with the given id, or nil.
func (m *MockStore) Get(id string) *task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Tasks {
		if m.Tasks[i].ID == id {
			t := m.Tasks[i]
			return &t
		}
	}
	return nil
}

// newTestQueue builds an engine over a fresh mock store with a ticking
// fake clock so creation order is deterministic.
func newTestQueue() (*Queue, *MockStore) {
	st := NewMockStore()
	q := New(st, Options{})

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	q.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return q, st
}
