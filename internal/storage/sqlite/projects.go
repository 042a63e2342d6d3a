package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"boards/internal/models"
)

// CreateProject persists a new project owned by ownerID.
func (s *Store) CreateProject(ctx context.Context, ownerID int64, title, description string) (models.Project, error) {
	if strings.TrimSpace(title) == "" {
		return models.Project{}, fmt.Errorf("%w: project title must not be empty", ErrInvalidInput)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO projects(title, description, owner_id) VALUES(?, ?, ?)`,
		strings.TrimSpace(title), description, ownerID)
	if err != nil {
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Project{}, fmt.Errorf("project id: %w", err)
	}
	return s.GetProject(ctx, id)
}

// GetProject fetches a project and its member ids in one consistent snapshot.
func (s *Store) GetProject(ctx context.Context, id int64) (models.Project, error) {
	var p models.Project
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT id, title, description, owner_id, created_at FROM projects WHERE id = ?`, id).
			Scan(&p.ID, &p.Title, &p.Description, &p.OwnerID, &p.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("project: %w", ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get project: %w", err)
		}

		rows, err := tx.QueryContext(ctx, `SELECT user_id FROM project_members WHERE project_id = ? ORDER BY user_id`, id)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var userID int64
			if err := rows.Scan(&userID); err != nil {
				return fmt.Errorf("scan member: %w", err)
			}
			p.MemberIDs = append(p.MemberIDs, userID)
		}
		return rows.Err()
	})
	if err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// ListProjects returns every project the user owns or is a member of,
// ordered by creation date.
func (s *Store) ListProjects(ctx context.Context, userID int64) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, owner_id, created_at FROM projects
        WHERE owner_id = ? OR id IN (SELECT project_id FROM project_members WHERE user_id = ?)
        ORDER BY created_at ASC, id ASC`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.OwnerID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject replaces the project's title and description.
func (s *Store) UpdateProject(ctx context.Context, id int64, title, description string) (models.Project, error) {
	if strings.TrimSpace(title) == "" {
		return models.Project{}, fmt.Errorf("%w: project title must not be empty", ErrInvalidInput)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE projects SET title = ?, description = ? WHERE id = ?`,
		strings.TrimSpace(title), description, id)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Project{}, err
	}
	if affected == 0 {
		return models.Project{}, fmt.Errorf("project: %w", ErrNotFound)
	}
	return s.GetProject(ctx, id)
}

// DeleteProject removes a project; tasks and their comments go with it.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project: %w", ErrNotFound)
	}
	return nil
}

// AddMember records the user as a member of the project. Adding an existing
// member is a no-op.
func (s *Store) AddMember(ctx context.Context, projectID, userID int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO project_members(project_id, user_id) VALUES(?, ?)
        ON CONFLICT(project_id, user_id) DO NOTHING`, projectID, userID)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// IsMember reports whether the user belongs to the project's member set.
// Ownership is not membership; callers check it separately.
func (s *Store) IsMember(ctx context.Context, projectID, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM project_members WHERE project_id = ? AND user_id = ?`,
		projectID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is member: %w", err)
	}
	return true, nil
}
