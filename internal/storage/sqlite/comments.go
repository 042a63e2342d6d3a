package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"boards/internal/models"
)

// CreateComment attaches a comment to a task on behalf of a user.
func (s *Store) CreateComment(ctx context.Context, taskID, userID int64, content string) (models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return models.Comment{}, fmt.Errorf("%w: comment content must not be empty", ErrInvalidInput)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO comments(task_id, user_id, content) VALUES(?, ?, ?)`,
		taskID, userID, strings.TrimSpace(content))
	if err != nil {
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Comment{}, fmt.Errorf("comment id: %w", err)
	}

	var c models.Comment
	err = s.db.QueryRowContext(ctx, `SELECT id, task_id, user_id, content, created_at FROM comments WHERE id = ?`, id).
		Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, fmt.Errorf("comment: %w", ErrNotFound)
	}
	if err != nil {
		return models.Comment{}, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// ListComments returns a task's comments, oldest first.
func (s *Store) ListComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, task_id, user_id, content, created_at FROM comments
        WHERE task_id = ? ORDER BY created_at ASC, id ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
