package ports

import (
	"context"

	"github.com/obralink/obra-monitor/internal/core/domain"
)

// DocumentRepository defines the persistence interface for document records.
type DocumentRepository interface {
	Insert(ctx context.Context, d *domain.DocumentRecord) error
	FindByID(ctx context.Context, id string) (*domain.DocumentRecord, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.DocumentRecord, error)
	Delete(ctx context.Context, id string) error
}
