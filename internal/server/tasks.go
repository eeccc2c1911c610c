package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type taskRequest struct {
	Title string `json:"title"`
	Note  string `json:"note"`
}

// handleListTasks returns the list's tasks split into open and completed sections.
func (s *Server) handleListTasks(c *gin.Context) {
	view, err := s.svc.Tasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondStatus(c, http.StatusBadRequest, err)
		return
	}
	task, pos, err := s.svc.CreateTask(c.Request.Context(), c.Param("id"), req.Title, req.Note)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task, "position": pos})
}

// handleEditTask replaces title and note; a missing note clears it.
func (s *Server) handleEditTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondStatus(c, http.StatusBadRequest, err)
		return
	}
	task, err := s.svc.EditTask(c.Request.Context(), c.Param("id"), req.Title, req.Note)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.svc.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// handleToggleTask flips completion and reports the row the task moved to.
func (s *Server) handleToggleTask(c *gin.Context) {
	task, pos, err := s.svc.ToggleTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task, "position": pos})
}
