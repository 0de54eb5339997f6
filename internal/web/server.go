// Package web exposes the task engine over HTTP.
package web

import (
	"github.com/gin-gonic/gin"

	"github.com/xiaona-ai/agent-tasks/internal/queue"
)

// Server is the agent-tasks HTTP server.
type Server struct {
	queue  *queue.Queue
	router *gin.Engine
}

// NewServer creates a server over the given engine.
func NewServer(q *queue.Queue) *Server {
	router := gin.Default()

	s := &Server{
		queue:  q,
		router: router,
	}

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleList)
		api.POST("/tasks", s.handleAdd)
		api.GET("/tasks/:id", s.handleGet)
		api.DELETE("/tasks/:id", s.handleDelete)
		api.POST("/tasks/:id/start", s.handleStart)
		api.POST("/tasks/:id/done", s.handleComplete)
		api.POST("/tasks/:id/fail", s.handleFail)
		api.POST("/tasks/:id/cancel", s.handleCancel)
		api.GET("/next", s.handleNext)
		api.GET("/stats", s.handleStats)
		api.GET("/overdue", s.handleOverdue)
	}

	return s
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the underlying router for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
