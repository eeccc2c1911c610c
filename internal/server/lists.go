package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasklists/internal/models"
)

type listRequest struct {
	Title string `json:"title"`
}

// handleListRows returns one summary row per list, ordered by ?sort=date|title.
func (s *Server) handleListRows(c *gin.Context) {
	by, err := models.ParseSortCriterion(c.Query("sort"))
	if err != nil {
		s.respondStatus(c, http.StatusBadRequest, err)
		return
	}
	rows, err := s.svc.ListRows(c.Request.Context(), by)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": rows})
}

func (s *Server) handleCreateList(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondStatus(c, http.StatusBadRequest, err)
		return
	}
	row, err := s.svc.CreateList(c.Request.Context(), req.Title)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"list": row})
}

func (s *Server) handleRenameList(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondStatus(c, http.StatusBadRequest, err)
		return
	}
	row, err := s.svc.RenameList(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": row})
}

// handleDeleteList removes a list and all of its tasks.
func (s *Server) handleDeleteList(c *gin.Context) {
	if err := s.svc.DeleteList(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) handleMarkListDone(c *gin.Context) {
	row, err := s.svc.MarkListDone(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": row})
}
