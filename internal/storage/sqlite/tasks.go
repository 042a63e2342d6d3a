package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"boards/internal/models"
)

// TaskFilter narrows ListTasks results. Zero-valued fields are ignored;
// set fields combine conjunctively.
type TaskFilter struct {
	Status     string
	Priority   string
	AssigneeID *int64
}

// CreateTask inserts a new task for a project. Status and priority are
// assumed validated at the boundary; empty values take the defaults.
func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: task title must not be empty", ErrInvalidInput)
	}
	if t.Status == "" {
		t.Status = models.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO tasks(project_id, title, description, status, priority, assignee_id)
        VALUES(?, ?, ?, ?, ?, ?)`,
		t.ProjectID, strings.TrimSpace(t.Title), t.Description, t.Status, t.Priority, t.AssigneeID)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("task id: %w", err)
	}
	return s.GetTask(ctx, id)
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id int64) (models.Task, error) {
	var t models.Task
	err := s.db.QueryRowContext(ctx, `SELECT id, project_id, title, description, status, priority, assignee_id, created_at
        FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.AssigneeID, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task: %w", ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListTasks returns the project's tasks matching the filter, ordered by id.
func (s *Store) ListTasks(ctx context.Context, projectID int64, filter TaskFilter) ([]models.Task, error) {
	query := `SELECT id, project_id, title, description, status, priority, assignee_id, created_at
        FROM tasks WHERE project_id = ?`
	args := []any{projectID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, filter.Priority)
	}
	if filter.AssigneeID != nil {
		query += ` AND assignee_id = ?`
		args = append(args, *filter.AssigneeID)
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.AssigneeID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask replaces all mutable fields of a task wholesale.
func (s *Store) UpdateTask(ctx context.Context, id int64, t models.Task) (models.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: task title must not be empty", ErrInvalidInput)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, assignee_id = ?
        WHERE id = ?`,
		strings.TrimSpace(t.Title), t.Description, t.Status, t.Priority, t.AssigneeID, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, err
	}
	if affected == 0 {
		return models.Task{}, fmt.Errorf("task: %w", ErrNotFound)
	}
	return s.GetTask(ctx, id)
}

// UpdateTaskStatus changes only the status column, leaving everything
// else untouched.
func (s *Store) UpdateTaskStatus(ctx context.Context, id int64, status string) (models.Task, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, err
	}
	if affected == 0 {
		return models.Task{}, fmt.Errorf("task: %w", ErrNotFound)
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task; its comments go with it.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task: %w", ErrNotFound)
	}
	return nil
}
