package core

import "context"

// Project groups invoices, parts and payments for one engagement.
type Project struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ProjectInput carries the fields needed to create a project.
type ProjectInput struct {
	Name        string
	Description string
}

// ProjectUpdate carries a partial update; nil fields are left unchanged.
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// ProjectService manages projects.
type ProjectService interface {
	CreateProject(ctx context.Context, input ProjectInput) (*Project, error)

	// GetProjects returns one page of projects and the total project
	// count. A limit <= 0 falls back to the default page size.
	GetProjects(ctx context.Context, skip, limit int) ([]Project, int, error)

	// GetProject returns a project by ID, or ErrNotFound.
	GetProject(ctx context.Context, id int) (*Project, error)
	UpdateProject(ctx context.Context, id int, update ProjectUpdate) (*Project, error)

	// DeleteProject removes a project; dependent invoices, parts and
	// payments are removed by the schema's ON DELETE CASCADE.
	DeleteProject(ctx context.Context, id int) error
}
