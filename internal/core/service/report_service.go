package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/obralink/obra-monitor/internal/api/metrics"
	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, projectID, period string) (bool, error)
	Mark(ctx context.Context, projectID, period string) error
}

type reportService struct {
	projectRepo ports.ProjectRepository
	reportRepo  ports.ReportRepository
	dedup       DedupChecker
	log         zerolog.Logger
}

// NewReportService returns a ReportService implementation.
func NewReportService(
	projectRepo ports.ProjectRepository,
	reportRepo ports.ReportRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.ReportService {
	return &reportService{
		projectRepo: projectRepo,
		reportRepo:  reportRepo,
		dedup:       dedup,
		log:         log,
	}
}

// Process validates, deduplicates, applies, and persists one progress report.
func (s *reportService) Process(ctx context.Context, in ports.ReportInput) error {
	start := time.Now()

	// 1. Idempotency check — silently skip duplicate (project, period) pairs.
	isDup, err := s.dedup.IsDuplicate(ctx, in.ProjectID, in.Period)
	if err != nil {
		s.log.Warn().Err(err).Str("project_id", in.ProjectID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.ReportsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("project_id", in.ProjectID).Str("period", in.Period).Msg("duplicate report skipped")
		return nil
	}
	metrics.ReportsDedupTotal.WithLabelValues("miss").Inc()

	project, err := s.projectRepo.FindByID(ctx, in.ProjectID)
	if err != nil {
		metrics.ReportsErrorsTotal.WithLabelValues("project_not_found").Inc()
		return fmt.Errorf("process report: %w", err)
	}

	// 2. Every entry must reference a known section. Progress never moves
	// backwards: a lower value than currently recorded is an input error.
	for _, e := range in.Entries {
		section := project.SectionByID(e.SectionID)
		if section == nil {
			metrics.ReportsErrorsTotal.WithLabelValues("unknown_section").Inc()
			return fmt.Errorf("process report: %w: %s", domain.ErrUnknownSection, e.SectionID)
		}
		if e.Progress < section.Progress {
			metrics.ReportsErrorsTotal.WithLabelValues("progress_regression").Inc()
			return fmt.Errorf("process report: section %s progress cannot decrease (%.1f -> %.1f)",
				e.SectionID, section.Progress, e.Progress)
		}
	}

	// 3. Apply section progress and recompute the weighted total.
	for _, e := range in.Entries {
		project.SectionByID(e.SectionID).Progress = clampPercent(e.Progress)
	}
	project.Progress = project.WeightedProgress()
	project.UpdatedAt = time.Now().UTC()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		metrics.ReportsErrorsTotal.WithLabelValues("update_failed").Inc()
		return fmt.Errorf("process report: update project: %w", err)
	}

	// 4. Mark only after the update landed. A failed update leaves the
	// period unmarked so a retry can re-apply; re-applying the same
	// monotonic progress set is harmless.
	if markErr := s.dedup.Mark(ctx, in.ProjectID, in.Period); markErr != nil {
		s.log.Warn().Err(markErr).Str("project_id", in.ProjectID).Msg("failed to set dedup key")
	}

	// 5. Persist the report itself as the audit trail (non-fatal on failure).
	report := &domain.ProgressReport{
		ID:         uuid.NewString(),
		ProjectID:  in.ProjectID,
		Period:     in.Period,
		ReportedBy: in.ReportedBy,
		Notes:      in.Notes,
		CreatedAt:  time.Now().UTC(),
	}
	for _, e := range in.Entries {
		report.Entries = append(report.Entries, domain.SectionProgress{SectionID: e.SectionID, Progress: e.Progress})
	}
	if err := s.reportRepo.Insert(ctx, report); err != nil {
		s.log.Warn().Err(err).Str("project_id", in.ProjectID).Msg("failed to insert report record")
	}

	metrics.ReportsProcessedTotal.WithLabelValues(in.Period).Inc()
	metrics.ReportProcessingDuration.Observe(time.Since(start).Seconds())

	s.log.Info().
		Str("project_id", in.ProjectID).
		Str("period", in.Period).
		Float64("progress", project.Progress).
		Msg("progress report applied")

	return nil
}
