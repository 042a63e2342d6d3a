package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"boards/internal/auth"
	"boards/internal/storage/sqlite"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignup registers a new account and returns its public projection.
func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Password == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("password is required"))
		return
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}

	user, err := s.store.CreateUser(c.Request.Context(), req.Name, req.Email, hash)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"user": user})
}

// handleLogin verifies credentials and issues a bearer token. The error is
// identical for unknown email and wrong password so accounts cannot be
// enumerated.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			s.respondError(c, http.StatusUnauthorized, fmt.Errorf("invalid credentials"))
			return
		}
		s.respondStoreError(c, err)
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.respondError(c, http.StatusUnauthorized, fmt.Errorf("invalid credentials"))
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}
