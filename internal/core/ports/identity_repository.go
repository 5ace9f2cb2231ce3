package ports

import (
	"context"

	"github.com/obralink/obra-monitor/internal/core/domain"
)

// IdentityRepository defines the persistence interface for identities.
type IdentityRepository interface {
	Create(ctx context.Context, id *domain.Identity) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	List(ctx context.Context) ([]domain.Identity, error)
	SetActive(ctx context.Context, id string, active bool) error
	Count(ctx context.Context) (int64, error)
}
