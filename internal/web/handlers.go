package web

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiaona-ai/agent-tasks/internal/queue"
	"github.com/xiaona-ai/agent-tasks/internal/task"
)

func errStatus(err error) int {
	var vErr *queue.ValidationError
	var tErr *queue.InvalidTransitionError
	switch {
	case errors.Is(err, queue.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.As(err, &tErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(errStatus(err), gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func (s *Server) handleList(c *gin.Context) {
	filter := queue.ListFilter{
		Status:    task.Status(c.Query("status")),
		Tag:       c.Query("tag"),
		DependsOn: c.Query("depends_on"),
	}
	if filter.Status != "" && !task.ValidStatus(filter.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "unknown status: " + string(filter.Status),
		})
		return
	}

	tasks, err := s.queue.List(filter)
	if err != nil {
		fail(c, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

type addBody struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Priority    int            `json:"priority"`
	Tags        []string       `json:"tags"`
	DependsOn   []string       `json:"depends_on"`
	Metadata    map[string]any `json:"metadata"`
	MaxRetries  *int           `json:"max_retries"`
	Timeout     int            `json:"timeout"`
	DueAt       string         `json:"due_at"`
}

func (s *Server) handleAdd(c *gin.Context) {
	var body addBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
		return
	}

	req := queue.AddRequest{
		Name:        body.Name,
		Description: body.Description,
		Priority:    body.Priority,
		Tags:        body.Tags,
		DependsOn:   body.DependsOn,
		Metadata:    body.Metadata,
		MaxRetries:  body.MaxRetries,
		Timeout:     body.Timeout,
	}
	if body.DueAt != "" {
		due, err := time.Parse(time.RFC3339, body.DueAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "invalid due_at: " + err.Error(),
			})
			return
		}
		req.DueAt = &due
	}

	t, err := s.queue.Add(req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "task": t})
}

func (s *Server) handleGet(c *gin.Context) {
	t, err := s.queue.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": t})
}

func (s *Server) handleDelete(c *gin.Context) {
	t, err := s.queue.Delete(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": t})
}

func (s *Server) handleStart(c *gin.Context) {
	t, err := s.queue.Start(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": t})
}

// bindOptionalJSON decodes the request body into out. A missing body is
// fine; anything present must parse. Writes the 400 itself on failure.
func bindOptionalJSON(c *gin.Context, out any) error {
	err := c.ShouldBindJSON(out)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "invalid request body: " + err.Error(),
	})
	return err
}

type completeBody struct {
	Result string `json:"result"`
}

func (s *Server) handleComplete(c *gin.Context) {
	var body completeBody
	if err := bindOptionalJSON(c, &body); err != nil {
		return
	}

	t, err := s.queue.Complete(c.Param("id"), body.Result)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": t})
}

type failBody struct {
	Error string `json:"error"`
}

func (s *Server) handleFail(c *gin.Context) {
	var body failBody
	if err := bindOptionalJSON(c, &body); err != nil {
		return
	}

	t, err := s.queue.Fail(c.Param("id"), body.Error)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": t})
}

func (s *Server) handleCancel(c *gin.Context) {
	t, err := s.queue.Cancel(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": t})
}

func (s *Server) handleNext(c *gin.Context) {
	t, err := s.queue.Next()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": t})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.queue.Stats()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (s *Server) handleOverdue(c *gin.Context) {
	tasks, err := s.queue.Overdue()
	if err != nil {
		fail(c, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}
