package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xiaona-ai/agent-tasks/internal/task"
)

func newTask(id, name string) task.Task {
	return task.Task{
		ID:         id,
		Name:       name,
		Status:     task.StatusPending,
		Priority:   3,
		MaxRetries: 3,
		CreatedAt:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestInitAndLoadEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), ".agent-tasks"))

	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty store, got %d tasks", len(tasks))
	}
}

func TestLoadWithoutInit(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"))

	_, err := s.Load()
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if err := s.Append(newTask("a", "x")); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized on append, got %v", err)
	}
}

func TestAppendAndLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if err := s.Append(newTask("aaa", "first")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.Append(newTask("bbb", "second")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != "aaa" || tasks[1].ID != "bbb" {
		t.Errorf("expected append order preserved, got %s, %s", tasks[0].ID, tasks[1].ID)
	}
}

func TestReplace(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	s.Append(newTask("aaa", "first"))
	s.Append(newTask("bbb", "second"))

	updated := newTask("bbb", "second")
	updated.Status = task.StatusRunning
	if err := s.Replace([]task.Task{updated}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "bbb" || tasks[0].Status != task.StatusRunning {
		t.Errorf("unexpected content after replace: %+v", tasks)
	}

	// No temp file left behind.
	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after replace")
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	s.Append(newTask("aaa", "good"))

	f, err := os.OpenFile(s.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	f.WriteString("{this is not json}\n")
	f.WriteString("\n")
	f.Close()

	s.Append(newTask("bbb", "also good"))

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks around the corrupt line, got %d", len(tasks))
	}
	if tasks[0].ID != "aaa" || tasks[1].ID != "bbb" {
		t.Errorf("unexpected tasks: %s, %s", tasks[0].ID, tasks[1].ID)
	}
}

func TestRoundTripKeepsUnknownFields(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	line := `{"id":"aaa","name":"x","status":"pending","priority":3,"retries":0,` +
		`"max_retries":3,"created_at":"2025-06-01T00:00:00Z","fleet":"gamma"}` + "\n"
	if err := os.WriteFile(s.Path(), []byte(line), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := s.Replace(tasks); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got := string(data); !strings.Contains(got, `"fleet":"gamma"`) {
		t.Errorf("unknown field dropped by rewrite: %s", got)
	}
}
