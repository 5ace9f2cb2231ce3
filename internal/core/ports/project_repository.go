package ports

import (
	"context"

	"github.com/obralink/obra-monitor/internal/core/domain"
)

// ProjectFilter narrows List queries.
type ProjectFilter struct {
	DistrictID string
	Status     string
	Page       int
	Limit      int
}

// ProjectRepository defines the persistence interface for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindByContractNumber(ctx context.Context, contractNumber string) (*domain.Project, error)
	List(ctx context.Context, f ProjectFilter) ([]domain.Project, int64, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}
