package core

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type projectService struct {
	pool *pgxpool.Pool
}

// NewProjectService constructs a ProjectService backed by PostgreSQL.
func NewProjectService(pool *pgxpool.Pool) ProjectService {
	return &projectService{pool: pool}
}

func scanProject(row pgx.Row) (*Project, error) {
	p := &Project{}
	err := row.Scan(&p.ID, &p.Name, &p.Description)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) CreateProject(ctx context.Context, input ProjectInput) (*Project, error) {
	p, err := scanProject(s.pool.QueryRow(ctx, `
		INSERT INTO projects (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description`,
		input.Name, toPtr(input.Description),
	))
	if err != nil {
		return nil, fmt.Errorf("create project %q: %w", input.Name, err)
	}
	return p, nil
}

func (s *projectService) GetProjects(ctx context.Context, skip, limit int) ([]Project, int, error) {
	offset, max := listWindow(skip, limit)
	query, args, err := psql.Select("id", "name", "description").From("projects").
		OrderBy("name").Offset(offset).Limit(max).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build projects query: %w", err)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("get projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := countRows(ctx, s.pool, "projects")
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (s *projectService) GetProject(ctx context.Context, id int) (*Project, error) {
	p, err := scanProject(s.pool.QueryRow(ctx, `
		SELECT id, name, description
		FROM projects
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return p, nil
}

func (s *projectService) UpdateProject(ctx context.Context, id int, update ProjectUpdate) (*Project, error) {
	b := psql.Update("projects").Where(sq.Eq{"id": id}).Suffix("RETURNING id, name, description")
	changed := false
	if update.Name != nil {
		b = b.Set("name", *update.Name)
		changed = true
	}
	if update.Description != nil {
		b = b.Set("description", toPtr(*update.Description))
		changed = true
	}
	if !changed {
		return s.GetProject(ctx, id)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build project update: %w", err)
	}
	p, err := scanProject(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update project %d: %w", id, err)
	}
	return p, nil
}

func (s *projectService) DeleteProject(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return nil
}
