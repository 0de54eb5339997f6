// Package store persists the task set as line-delimited JSON records.
//
// The store is deliberately simple: one self-describing record per line,
// append for new tasks, full rewrite for mutations. A record that fails to
// parse is skipped with a warning rather than failing the whole load, so a
// newer writer never renders the file unreadable to an older reader.
package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/xiaona-ai/agent-tasks/internal/task"
)

const (
	// DefaultDir is the store directory created relative to a project root.
	DefaultDir = ".agent-tasks"

	tasksFile = "tasks.jsonl"
)

// ErrNotInitialized indicates the store directory does not exist yet.
var ErrNotInitialized = errors.New("task store not initialized")

// FileStore is a handle on a single on-disk task store. It is created with
// an explicit directory so multiple independent stores can coexist in one
// process.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// New returns a store handle rooted at dir. The directory is not created
// until Init is called.
func New(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the store directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the path of the tasks file.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, tasksFile)
}

// Init creates the store directory and an empty tasks file if needed.
func (s *FileStore) Init() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	f, err := os.OpenFile(s.Path(), os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create tasks file: %w", err)
	}
	return f.Close()
}

func (s *FileStore) ensure() error {
	info, err := os.Stat(s.dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w at %s (run init first)", ErrNotInitialized, s.dir)
	}
	return nil
}

// Load reads the full task set. Malformed lines are skipped with a warning;
// an unreadable file is a hard error.
func (s *FileStore) Load() ([]task.Task, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read task store: %w", err)
	}
	defer f.Close()

	var tasks []task.Task
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var t task.Task
		if err := json.Unmarshal(line, &t); err != nil {
			log.Printf("Warning: skipping malformed record at %s:%d: %v", s.Path(), lineno, err)
			continue
		}
		tasks = append(tasks, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task store: %w", err)
	}
	return tasks, nil
}

// Append writes a single new record to the end of the tasks file.
func (s *FileStore) Append(t task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(); err != nil {
		return err
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}

	f, err := os.OpenFile(s.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open task store: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append task: %w", err)
	}
	return nil
}

// Replace rewrites the whole task set atomically via a temp file + rename.
func (s *FileStore) Replace(tasks []task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(); err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, t := range tasks {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode task %s: %w", t.ID, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	path := s.Path()
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write task store: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace task store: %w", err)
	}
	return nil
}
