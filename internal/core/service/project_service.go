package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
)

// ProjectService implements project use cases.
type ProjectService struct {
	repo      ports.ProjectRepository
	districts ports.DistrictRepository
	logger    zerolog.Logger
}

func NewProjectService(repo ports.ProjectRepository, districts ports.DistrictRepository, logger zerolog.Logger) *ProjectService {
	return &ProjectService{repo: repo, districts: districts, logger: logger}
}

// Create registers a new project in status planned. The district must exist,
// the contract number must be unused, and section weights, when present,
// must be positive.
func (s *ProjectService) Create(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	if _, err := s.districts.FindByID(ctx, in.DistrictID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByContractNumber(ctx, in.ContractNumber); err == nil {
		return nil, domain.ErrDuplicateContract
	} else if !errors.Is(err, domain.ErrProjectNotFound) {
		return nil, err
	}
	sections, err := toSections(in.Sections)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ContractNumber: in.ContractNumber,
		Name:           in.Name,
		DistrictID:     in.DistrictID,
		Description:    in.Description,
		Budget:         in.Budget,
		Status:         domain.StatusPlanned,
		Sections:       sections,
		CreatedBy:      in.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	project.Progress = project.WeightedProgress()

	created, err := s.repo.Create(ctx, project)
	if err != nil {
		s.logger.Error().Err(err).Str("contract_number", in.ContractNumber).Msg("failed to create project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", created.ID).
		Str("contract_number", created.ContractNumber).
		Str("district_id", created.DistrictID).
		Msg("project created")

	return created, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, in ports.ListProjectsInput) (*ports.ListProjectsResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	projects, total, err := s.repo.List(ctx, ports.ProjectFilter{
		DistrictID: in.DistrictID,
		Status:     in.Status,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	return &ports.ListProjectsResult{Projects: projects, Total: total, Page: page, Limit: limit}, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, in ports.UpdateProjectInput) (*domain.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		project.Name = in.Name
	}
	if in.Description != "" {
		project.Description = in.Description
	}
	if in.Budget > 0 {
		project.Budget = in.Budget
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Approve is the dedicated planned→approved transition.
func (s *ProjectService) Approve(ctx context.Context, id string) (*domain.Project, error) {
	return s.ChangeStatus(ctx, id, domain.StatusApproved)
}

// ChangeStatus applies a state-machine transition, rejecting invalid moves.
func (s *ProjectService) ChangeStatus(ctx context.Context, id string, next domain.ProjectStatus) (*domain.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !project.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, project.Status, next)
	}

	project.Status = next
	project.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info().Str("project_id", id).Str("status", string(next)).Msg("project status changed")
	return project, nil
}

// ReplaceSections swaps the section list wholesale and recomputes progress.
func (s *ProjectService) ReplaceSections(ctx context.Context, id string, in []ports.SectionInput) (*domain.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sections, err := toSections(in)
	if err != nil {
		return nil, err
	}

	project.Sections = sections
	project.Progress = project.WeightedProgress()
	project.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("project_id", id).Msg("project deleted")
	return nil
}

func toSections(in []ports.SectionInput) ([]domain.Section, error) {
	sections := make([]domain.Section, 0, len(in))
	for _, si := range in {
		if si.Weight <= 0 {
			return nil, domain.ErrInvalidWeights
		}
		sections = append(sections, domain.Section{
			ID:       si.ID,
			Name:     si.Name,
			Trade:    si.Trade,
			Weight:   si.Weight,
			Progress: clampPercent(si.Progress),
		})
	}
	return sections, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
