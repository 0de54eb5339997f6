package queue

import (
	"sort"

	"github.com/xiaona-ai/agent-tasks/internal/task"
)

// Next returns the best pending task, or nil if none is pending. Ordering:
// priority descending, then earliest due date (no due date sorts last),
// then earliest creation time, then id. Next never mutates state.
func (q *Queue) Next() (*task.Task, error) {
	tasks, err := q.store.Load()
	if err != nil {
		return nil, err
	}

	var pending []task.Task
	for _, t := range tasks {
		if t.Status == task.StatusPending {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	sort.Slice(pending, func(i, j int) bool {
		a, b := pending[i], pending[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		switch {
		case a.DueAt != nil && b.DueAt == nil:
			return true
		case a.DueAt == nil && b.DueAt != nil:
			return false
		case a.DueAt != nil && b.DueAt != nil && !a.DueAt.Equal(*b.DueAt):
			return a.DueAt.Before(*b.DueAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return &pending[0], nil
}

// ListFilter narrows List output. Zero-valued fields are ignored; set
// fields are conjunctive.
type ListFilter struct {
	Status    task.Status
	Tag       string
	DependsOn string
	Limit     int // keep the most recent N; 0 means no limit
}

// List returns tasks in store (creation) order, optionally filtered.
func (q *Queue) List(filter ListFilter) ([]task.Task, error) {
	tasks, err := q.store.Load()
	if err != nil {
		return nil, err
	}

	var out []task.Task
	for _, t := range tasks {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Tag != "" && !t.HasTag(filter.Tag) {
			continue
		}
		if filter.DependsOn != "" && !t.DependsOnID(filter.DependsOn) {
			continue
		}
		out = append(out, t)
	}

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[len(out)-filter.Limit:]
	}
	return out, nil
}

// Overdue returns tasks whose due date is strictly in the past and that are
// neither done nor cancelled.
func (q *Queue) Overdue() ([]task.Task, error) {
	tasks, err := q.store.Load()
	if err != nil {
		return nil, err
	}

	now := q.now().UTC()
	var out []task.Task
	for _, t := range tasks {
		if t.DueAt == nil || !t.DueAt.Before(now) {
			continue
		}
		if t.Status == task.StatusDone || t.Status == task.StatusCancelled {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Stats holds a per-status breakdown of the task set.
type Stats struct {
	Total    int                 `json:"total"`
	ByStatus map[task.Status]int `json:"by_status"`
}

// Stats counts tasks per status. Every valid status appears in the map,
// zero or not, and the counts always sum to Total.
func (q *Queue) Stats() (*Stats, error) {
	tasks, err := q.store.Load()
	if err != nil {
		return nil, err
	}

	s := &Stats{ByStatus: make(map[task.Status]int, len(task.AllStatuses))}
	for _, st := range task.AllStatuses {
		s.ByStatus[st] = 0
	}
	for _, t := range tasks {
		s.Total++
		s.ByStatus[t.Status]++
	}
	return s, nil
}

// Count returns the number of stored tasks.
func (q *Queue) Count() (int, error) {
	tasks, err := q.store.Load()
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}
