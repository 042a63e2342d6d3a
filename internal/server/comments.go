package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Content string `json:"content"`
}

// handleCreateComment attaches a comment to a task on behalf of the caller.
// Any authenticated user may comment on any existing task.
func (s *Server) handleCreateComment(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if _, err := s.store.GetTask(c.Request.Context(), taskID); err != nil {
		s.respondStoreError(c, err)
		return
	}

	comment, err := s.store.CreateComment(c.Request.Context(), taskID, currentClaims(c).UserID, req.Content)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"comment": comment})
}

// handleListComments returns a task's comments, oldest first. No token is
// required; only the task has to exist.
func (s *Server) handleListComments(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := s.store.GetTask(c.Request.Context(), taskID); err != nil {
		s.respondStoreError(c, err)
		return
	}

	comments, err := s.store.ListComments(c.Request.Context(), taskID)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"comments": comments})
}
