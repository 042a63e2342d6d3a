package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"boards/internal/models"
)

// CreateUser persists a new account. The email must be unique; a duplicate
// yields ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (models.User, error) {
	if strings.TrimSpace(name) == "" {
		return models.User{}, fmt.Errorf("%w: user name must not be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(email) == "" {
		return models.User{}, fmt.Errorf("%w: user email must not be empty", ErrInvalidInput)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO users(name, email, password_hash) VALUES(?, ?, ?)`,
		strings.TrimSpace(name), email, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("user id: %w", err)
	}
	return s.GetUser(ctx, id)
}

// GetUser fetches a single user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail looks an account up for login. Email matching is exact.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}
