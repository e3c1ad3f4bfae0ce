// File path: internal/store/projects.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/coddog/coddog/internal/coderr"
)

const pgUniqueViolation = "23505"

// CreateProject inserts a new Project. Supplemented beyond spec.md's
// read-only `GET /projects` per SPEC_FULL.md's project CRUD addition.
func (s *Store) CreateProject(ctx context.Context, name string, repo *string) (Project, error) {
	if s == nil || s.db == nil {
		return Project{}, coderr.ErrBackingStoreMissing
	}
	var p Project
	err := s.db.GetContext(ctx, &p,
		`INSERT INTO projects (name, repo) VALUES ($1, $2) RETURNING id, name, repo`, name, repo)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Project{}, fmt.Errorf("project %q: %w", name, coderr.ErrConflict)
		}
		return Project{}, fmt.Errorf("%w: create project: %v", coderr.ErrBackingStoreUnavailable, err)
	}
	return p, nil
}

// UpdateProject renames a Project and/or changes its repository URL.
func (s *Store) UpdateProject(ctx context.Context, id int64, name string, repo *string) (Project, error) {
	if s == nil || s.db == nil {
		return Project{}, coderr.ErrBackingStoreMissing
	}
	var p Project
	err := s.db.GetContext(ctx, &p,
		`UPDATE projects SET name = $2, repo = $3 WHERE id = $1 RETURNING id, name, repo`, id, name, repo)
	if err != nil {
		return Project{}, mapNotFound(err, "project")
	}
	return p, nil
}

// DeleteProject removes a Project, cascading to its Versions and Sources
// (and, transitively, their Symbols and Windows).
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	if s == nil || s.db == nil {
		return coderr.ErrBackingStoreMissing
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete project: %v", coderr.ErrBackingStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return coderr.ErrNotFound
	}
	return nil
}

// GetProject retrieves a single Project by id.
func (s *Store) GetProject(ctx context.Context, id int64) (Project, error) {
	if s == nil || s.db == nil {
		return Project{}, coderr.ErrBackingStoreMissing
	}
	var p Project
	if err := s.db.GetContext(ctx, &p, `SELECT id, name, repo FROM projects WHERE id = $1`, id); err != nil {
		return Project{}, mapNotFound(err, "project")
	}
	return p, nil
}

// ListProjects returns every Project, ordered by name (the `GET /projects`
// contract from §6).
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	if s == nil || s.db == nil {
		return nil, coderr.ErrBackingStoreMissing
	}
	projects := []Project{}
	if err := s.db.SelectContext(ctx, &projects, `SELECT id, name, repo FROM projects ORDER BY name`); err != nil {
		return nil, fmt.Errorf("%w: list projects: %v", coderr.ErrBackingStoreUnavailable, err)
	}
	return projects, nil
}

func mapNotFound(err error, entity string) error {
	if err == nil {
		return nil
	}
	if isNoRows(err) {
		return fmt.Errorf("%s: %w", entity, coderr.ErrNotFound)
	}
	return fmt.Errorf("%w: %s: %v", coderr.ErrBackingStoreUnavailable, entity, err)
}
