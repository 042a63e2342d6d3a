package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"boards/internal/models"
	"boards/internal/storage/sqlite"
)

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	AssigneeID  *int64 `json:"assignee_id"`
}

// validate applies enum defaults and rejects unknown status or priority
// values before anything reaches the store. Required-field checks live in
// the store, which reports them as ErrInvalidInput.
func (r *taskRequest) validate() error {
	if r.Status == "" {
		r.Status = models.StatusTodo
	} else if _, ok := models.ValidTaskStatuses[r.Status]; !ok {
		return fmt.Errorf("invalid status %q", r.Status)
	}
	if r.Priority == "" {
		r.Priority = models.PriorityMedium
	} else if _, ok := models.ValidTaskPriorities[r.Priority]; !ok {
		return fmt.Errorf("invalid priority %q", r.Priority)
	}
	return nil
}

// assigneeExists resolves an optional assignee to an existing user before
// the task row is written, so a bad id surfaces as a 404 instead of a
// foreign key failure. A nil assignee is always fine.
func (s *Server) assigneeExists(c *gin.Context, assigneeID *int64) bool {
	if assigneeID == nil {
		return true
	}
	if _, err := s.store.GetUser(c.Request.Context(), *assigneeID); err != nil {
		s.respondStoreError(c, err)
		return false
	}
	return true
}

// loadTaskForWrite fetches a task and enforces the mutation policy: task
// writes are gated on the parent project's owner.
func (s *Server) loadTaskForWrite(c *gin.Context, id int64) (models.Task, bool) {
	task, err := s.store.GetTask(c.Request.Context(), id)
	if err != nil {
		s.respondStoreError(c, err)
		return models.Task{}, false
	}

	project, err := s.store.GetProject(c.Request.Context(), task.ProjectID)
	if err != nil {
		s.respondStoreError(c, err)
		return models.Task{}, false
	}
	if project.OwnerID != currentClaims(c).UserID {
		s.respondError(c, http.StatusForbidden, fmt.Errorf("only the project owner may modify tasks"))
		return models.Task{}, false
	}
	return task, true
}

// handleCreateTask inserts a new task into the caller's project.
func (s *Server) handleCreateTask(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	if _, ok := s.loadProjectForWrite(c, projectID); !ok {
		return
	}
	if !s.assigneeExists(c, req.AssigneeID) {
		return
	}

	task, err := s.store.CreateTask(c.Request.Context(), models.Task{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleListTasks fetches a project's tasks with optional equality filters
// on status, priority and assignee_id.
func (s *Server) handleListTasks(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, ok := s.loadProjectForRead(c, projectID); !ok {
		return
	}

	var filter sqlite.TaskFilter
	if status := c.Query("status"); status != "" {
		if _, ok := models.ValidTaskStatuses[status]; !ok {
			s.respondError(c, http.StatusBadRequest, fmt.Errorf("invalid status %q", status))
			return
		}
		filter.Status = status
	}
	if priority := c.Query("priority"); priority != "" {
		if _, ok := models.ValidTaskPriorities[priority]; !ok {
			s.respondError(c, http.StatusBadRequest, fmt.Errorf("invalid priority %q", priority))
			return
		}
		filter.Priority = priority
	}
	if raw := c.Query("assignee_id"); raw != "" {
		assigneeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, fmt.Errorf("invalid assignee_id %q", raw))
			return
		}
		filter.AssigneeID = &assigneeID
	}

	tasks, err := s.store.ListTasks(c.Request.Context(), projectID, filter)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": tasks})
}

// handleUpdateTask replaces all mutable fields of a task wholesale.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	if _, ok := s.loadTaskForWrite(c, id); !ok {
		return
	}
	if !s.assigneeExists(c, req.AssigneeID) {
		return
	}

	task, err := s.store.UpdateTask(c.Request.Context(), id, models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task and its comments.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, ok := s.loadTaskForWrite(c, id); !ok {
		return
	}
	if err := s.store.DeleteTask(c.Request.Context(), id); err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"detail": "task deleted"})
}

// handleMarkTodo moves a task back to the Todo column.
func (s *Server) handleMarkTodo(c *gin.Context) {
	s.transitionTask(c, models.StatusTodo)
}

// handleMarkInProgress moves a task to InProgress.
func (s *Server) handleMarkInProgress(c *gin.Context) {
	s.transitionTask(c, models.StatusInProgress)
}

// handleMarkDone moves a task to Done.
func (s *Server) handleMarkDone(c *gin.Context) {
	s.transitionTask(c, models.StatusDone)
}

// transitionTask changes only the status of a task. Every status may move
// to every other status.
func (s *Server) transitionTask(c *gin.Context, status string) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, ok := s.loadTaskForWrite(c, id); !ok {
		return
	}

	task, err := s.store.UpdateTaskStatus(c.Request.Context(), id, status)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}
