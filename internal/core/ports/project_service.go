package ports

import (
	"context"

	"github.com/obralink/obra-monitor/internal/core/domain"
)

// SectionInput describes one trade line of a project.
type SectionInput struct {
	ID       string
	Name     string
	Trade    string
	Weight   float64
	Progress float64
}

// CreateProjectInput carries all data needed to register a new project.
type CreateProjectInput struct {
	ContractNumber string
	Name           string
	DistrictID     string
	Description    string
	Budget         float64
	Sections       []SectionInput
	CreatedBy      string
}

// UpdateProjectInput carries the mutable project fields.
type UpdateProjectInput struct {
	Name        string
	Description string
	Budget      float64
}

// ListProjectsInput carries the list endpoint filters.
type ListProjectsInput struct {
	DistrictID string
	Status     string
	Page       int
	Limit      int
}

// ListProjectsResult pairs a page of projects with the total match count.
type ListProjectsResult struct {
	Projects []domain.Project
	Total    int64
	Page     int
	Limit    int
}

// ProjectService defines use-case operations for projects.
type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, in ListProjectsInput) (*ListProjectsResult, error)
	Update(ctx context.Context, id string, in UpdateProjectInput) (*domain.Project, error)
	// Approve moves a planned project to approved.
	Approve(ctx context.Context, id string) (*domain.Project, error)
	// ChangeStatus applies any state-machine transition.
	ChangeStatus(ctx context.Context, id string, next domain.ProjectStatus) (*domain.Project, error)
	// ReplaceSections swaps the full section list and recomputes progress.
	ReplaceSections(ctx context.Context, id string, sections []SectionInput) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}
