package ports

import (
	"context"

	"github.com/obralink/obra-monitor/internal/core/domain"
)

// DistrictRepository defines the persistence interface for districts.
type DistrictRepository interface {
	Create(ctx context.Context, d *domain.District) (*domain.District, error)
	FindByID(ctx context.Context, id string) (*domain.District, error)
	List(ctx context.Context) ([]domain.District, error)
	Update(ctx context.Context, d *domain.District) error
}
