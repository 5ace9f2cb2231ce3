package ports

import (
	"context"

	"github.com/obralink/obra-monitor/internal/core/domain"
)

// ReportRepository defines the persistence interface for progress reports.
type ReportRepository interface {
	Insert(ctx context.Context, r *domain.ProgressReport) error
	ListByProject(ctx context.Context, projectID string) ([]domain.ProgressReport, error)
}
