package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/xiaona-ai/agent-tasks/internal/queue"
	"github.com/xiaona-ai/agent-tasks/internal/store"
	"github.com/xiaona-ai/agent-tasks/internal/task"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	return NewServer(queue.New(st, queue.Options{}))
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

type taskResponse struct {
	Success bool       `json:"success"`
	Error   string     `json:"error"`
	Task    *task.Task `json:"task"`
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) *taskResponse {
	t.Helper()
	var resp taskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v (body: %s)", err, w.Body.String())
	}
	return &resp
}

func addTask(t *testing.T, s *Server, body map[string]any) *task.Task {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/tasks", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("add returned %d: %s", w.Code, w.Body.String())
	}
	return decodeTask(t, w).Task
}

func TestAddAndGetTask(t *testing.T) {
	s := newTestServer(t)

	created := addTask(t, s, map[string]any{
		"name":     "deploy",
		"priority": 5,
		"tags":     []string{"ops"},
	})
	if created.Status != task.StatusPending || created.Priority != 5 {
		t.Errorf("unexpected created task: %+v", created)
	}

	w := doJSON(t, s, http.MethodGet, "/api/tasks/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get returned %d", w.Code)
	}
	if got := decodeTask(t, w).Task; got.Name != "deploy" {
		t.Errorf("expected deploy, got %q", got.Name)
	}
}

func TestAddValidation(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/tasks", map[string]any{"name": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty name, got %d", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/tasks", map[string]any{"name": "x", "priority": 9})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad priority, got %d", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/tasks", map[string]any{"name": "x", "due_at": "tomorrow"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed due_at, got %d", w.Code)
	}
}

func TestLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	created := addTask(t, s, map[string]any{"name": "build"})

	w := doJSON(t, s, http.MethodPost, "/api/tasks/"+created.ID+"/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, "/api/tasks/"+created.ID+"/done", map[string]any{"result": "ok"})
	if w.Code != http.StatusOK {
		t.Fatalf("done returned %d: %s", w.Code, w.Body.String())
	}
	got := decodeTask(t, w).Task
	if got.Status != task.StatusDone || got.Result != "ok" {
		t.Errorf("unexpected task after done: %+v", got)
	}
}

func TestOptionalBodyParsing(t *testing.T) {
	s := newTestServer(t)
	created := addTask(t, s, map[string]any{"name": "build"})

	doJSON(t, s, http.MethodPost, "/api/tasks/"+created.ID+"/start", nil)

	// A present but malformed body is rejected, not treated as empty.
	req := httptest.NewRequest(http.MethodPost, "/api/tasks/"+created.ID+"/done",
		strings.NewReader(`{"result":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d: %s", w.Code, w.Body.String())
	}

	// The task is untouched, so an empty body still completes it.
	w = doJSON(t, s, http.MethodPost, "/api/tasks/"+created.ID+"/done", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty body, got %d: %s", w.Code, w.Body.String())
	}
	if got := decodeTask(t, w).Task; got.Status != task.StatusDone {
		t.Errorf("unexpected status after done: %s", got.Status)
	}

	// Same rule on fail.
	created = addTask(t, s, map[string]any{"name": "retryable"})
	doJSON(t, s, http.MethodPost, "/api/tasks/"+created.ID+"/start", nil)
	req = httptest.NewRequest(http.MethodPost, "/api/tasks/"+created.ID+"/fail",
		strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed fail body, got %d", w.Code)
	}
}

func TestInvalidTransitionConflict(t *testing.T) {
	s := newTestServer(t)
	created := addTask(t, s, map[string]any{"name": "x"})

	// done on a pending task is not legal
	w := doJSON(t, s, http.MethodPost, "/api/tasks/"+created.ID+"/done", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/api/tasks/missing",
		"/api/tasks/missing/start",
	} {
		method := http.MethodGet
		if path != "/api/tasks/missing" {
			method = http.MethodPost
		}
		w := doJSON(t, s, method, path, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, w.Code)
		}
	}
}

func TestNextAndStats(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/next", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("next returned %d", w.Code)
	}
	if got := decodeTask(t, w).Task; got != nil {
		t.Errorf("expected null next on empty queue, got %+v", got)
	}

	addTask(t, s, map[string]any{"name": "low", "priority": 1})
	high := addTask(t, s, map[string]any{"name": "high", "priority": 5})

	w = doJSON(t, s, http.MethodGet, "/api/next", nil)
	if got := decodeTask(t, w).Task; got == nil || got.ID != high.ID {
		t.Errorf("expected high-priority task from next")
	}

	w = doJSON(t, s, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats returned %d", w.Code)
	}
	var resp struct {
		Stats struct {
			Total    int                 `json:"total"`
			ByStatus map[task.Status]int `json:"by_status"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Stats.Total != 2 || resp.Stats.ByStatus[task.StatusPending] != 2 {
		t.Errorf("unexpected stats: %+v", resp.Stats)
	}
}

func TestListFilters(t *testing.T) {
	s := newTestServer(t)
	addTask(t, s, map[string]any{"name": "a", "tags": []string{"ops"}})
	addTask(t, s, map[string]any{"name": "b", "tags": []string{"dev"}})

	w := doJSON(t, s, http.MethodGet, "/api/tasks?tag=ops", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list returned %d", w.Code)
	}
	var resp struct {
		Tasks []task.Task `json:"tasks"`
		Count int         `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Count != 1 || resp.Tasks[0].Name != "a" {
		t.Errorf("unexpected filtered list: %+v", resp)
	}

	w = doJSON(t, s, http.MethodGet, "/api/tasks?status=sleeping", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	s := newTestServer(t)
	created := addTask(t, s, map[string]any{"name": "x"})

	w := doJSON(t, s, http.MethodDelete, "/api/tasks/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete returned %d", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/tasks/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}
