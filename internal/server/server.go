package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"boards/internal/auth"
	"boards/internal/config"
	"boards/internal/storage/sqlite"
)

// Server provides HTTP handlers for the project management backend.
type Server struct {
	engine     *gin.Engine
	store      *sqlite.Store
	tokens     *auth.TokenService
	logger     *slog.Logger
	bcryptCost int
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, tokens *auth.TokenService, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine:     router,
		store:      store,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		api.POST("/signup", s.handleSignup)
		api.POST("/login", s.handleLogin)

		projects := api.Group("/projects", s.requireAuth())
		{
			projects.GET("", s.handleListProjects)
			projects.POST("", s.handleCreateProject)
			projects.GET(":id", s.handleGetProject)
			projects.PUT(":id", s.handleUpdateProject)
			projects.DELETE(":id", s.handleDeleteProject)
			projects.POST(":id/members/:userID", s.handleAddMember)
			projects.GET(":id/tasks", s.handleListTasks)
			projects.POST(":id/tasks", s.handleCreateTask)
		}

		tasks := api.Group("/tasks")
		{
			tasks.PUT(":id", s.requireAuth(), s.handleUpdateTask)
			tasks.DELETE(":id", s.requireAuth(), s.handleDeleteTask)
			tasks.PATCH(":id/mark-todo", s.requireAuth(), s.handleMarkTodo)
			tasks.PATCH(":id/mark-in-progress", s.requireAuth(), s.handleMarkInProgress)
			tasks.PATCH(":id/mark-done", s.requireAuth(), s.handleMarkDone)
			tasks.POST(":id/comments", s.requireAuth(), s.handleCreateComment)
			tasks.GET(":id/comments", s.handleListComments)
		}
	}
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if err != nil {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondStoreError maps store failures to HTTP statuses. Unknown errors
// become an opaque 500 so internal detail never reaches the caller.
func (s *Server) respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sqlite.ErrInvalidInput):
		s.respondError(c, http.StatusBadRequest, err)
	case errors.Is(err, sqlite.ErrNotFound):
		s.respondError(c, http.StatusNotFound, err)
	case errors.Is(err, sqlite.ErrEmailTaken):
		s.respondError(c, http.StatusConflict, err)
	default:
		s.logger.Error("store failure", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
