package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"boards/internal/models"
)

type projectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// loadProjectForRead fetches a project and enforces the read policy: the
// caller must own it or be in its member set. Existence is checked first so
// a missing project is always a 404 regardless of the caller.
func (s *Server) loadProjectForRead(c *gin.Context, id int64) (models.Project, bool) {
	project, err := s.store.GetProject(c.Request.Context(), id)
	if err != nil {
		s.respondStoreError(c, err)
		return models.Project{}, false
	}

	claims := currentClaims(c)
	if project.OwnerID == claims.UserID {
		return project, true
	}
	member, err := s.store.IsMember(c.Request.Context(), id, claims.UserID)
	if err != nil {
		s.respondStoreError(c, err)
		return models.Project{}, false
	}
	if !member {
		s.respondError(c, http.StatusForbidden, fmt.Errorf("not a member of this project"))
		return models.Project{}, false
	}
	return project, true
}

// loadProjectForWrite fetches a project and enforces the mutation policy:
// only the owner may change a project or anything nested under it.
func (s *Server) loadProjectForWrite(c *gin.Context, id int64) (models.Project, bool) {
	project, err := s.store.GetProject(c.Request.Context(), id)
	if err != nil {
		s.respondStoreError(c, err)
		return models.Project{}, false
	}
	if project.OwnerID != currentClaims(c).UserID {
		s.respondError(c, http.StatusForbidden, fmt.Errorf("only the project owner may do this"))
		return models.Project{}, false
	}
	return project, true
}

// handleListProjects returns the projects the caller owns or belongs to.
func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.store.ListProjects(c.Request.Context(), currentClaims(c).UserID)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"projects": projects})
}

// handleCreateProject creates a new project owned by the caller.
func (s *Server) handleCreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	project, err := s.store.CreateProject(c.Request.Context(), currentClaims(c).UserID, req.Title, req.Description)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"project": project})
}

// handleGetProject returns a single project with its member ids.
func (s *Server) handleGetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	project, ok := s.loadProjectForRead(c, id)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"project": project})
}

// handleUpdateProject replaces the project's title and description.
func (s *Server) handleUpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if _, ok := s.loadProjectForWrite(c, id); !ok {
		return
	}

	project, err := s.store.UpdateProject(c.Request.Context(), id, req.Title, req.Description)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"project": project})
}

// handleDeleteProject removes a project along with its tasks and comments.
func (s *Server) handleDeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, ok := s.loadProjectForWrite(c, id); !ok {
		return
	}
	if err := s.store.DeleteProject(c.Request.Context(), id); err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"detail": "project deleted"})
}

// handleAddMember grants a user membership of the project. Adding someone
// twice is a no-op.
func (s *Server) handleAddMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userID")
	if !ok {
		return
	}

	if _, ok := s.loadProjectForWrite(c, id); !ok {
		return
	}

	member, err := s.store.GetUser(c.Request.Context(), userID)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}

	if err := s.store.AddMember(c.Request.Context(), id, member.ID); err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"detail": fmt.Sprintf("%s added as member", member.Name)})
}
