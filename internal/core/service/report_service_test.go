package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
)

type stubDedup struct {
	seen map[string]bool
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (d *stubDedup) IsDuplicate(_ context.Context, projectID, period string) (bool, error) {
	return d.seen[projectID+"|"+period], nil
}

func (d *stubDedup) Mark(_ context.Context, projectID, period string) error {
	d.seen[projectID+"|"+period] = true
	return nil
}

type stubReportRepo struct {
	inserted []*domain.ProgressReport
}

func (r *stubReportRepo) Insert(_ context.Context, rep *domain.ProgressReport) error {
	r.inserted = append(r.inserted, rep)
	return nil
}

func (r *stubReportRepo) ListByProject(_ context.Context, projectID string) ([]domain.ProgressReport, error) {
	var out []domain.ProgressReport
	for _, rep := range r.inserted {
		if rep.ProjectID == projectID {
			out = append(out, *rep)
		}
	}
	return out, nil
}

func seedProject(t *testing.T, repo *stubProjectRepo) *domain.Project {
	t.Helper()
	now := time.Now().UTC()
	created, err := repo.Create(context.Background(), &domain.Project{
		ContractNumber: "OBRA-2025-010",
		Name:           "Planta de Tratamiento",
		DistrictID:     "d1",
		Status:         domain.StatusInProgress,
		Sections: []domain.Section{
			{ID: "obra-civil", Name: "Obra Civil", Weight: 60, Progress: 20},
			{ID: "equipamiento", Name: "Equipamiento", Weight: 40, Progress: 0},
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return created
}

func TestReportService_Process_AppliesProgress(t *testing.T) {
	projects := newStubProjectRepo()
	reports := &stubReportRepo{}
	dedup := newStubDedup()
	svc := NewReportService(projects, reports, dedup, zerolog.Nop())
	project := seedProject(t, projects)

	err := svc.Process(context.Background(), ports.ReportInput{
		ProjectID:  project.ID,
		Period:     "2025-08",
		ReportedBy: "id-7",
		Entries: []ports.SectionProgressInput{
			{SectionID: "obra-civil", Progress: 50},
			{SectionID: "equipamiento", Progress: 25},
		},
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	stored, _ := projects.FindByID(context.Background(), project.ID)
	if got := stored.SectionByID("obra-civil").Progress; got != 50 {
		t.Fatalf("obra-civil progress = %v, want 50", got)
	}
	// 60*50 + 40*25 over 100 weight units.
	if stored.Progress != 40 {
		t.Fatalf("weighted progress = %v, want 40", stored.Progress)
	}
	if len(reports.inserted) != 1 {
		t.Fatalf("inserted reports = %d, want 1", len(reports.inserted))
	}
	if reports.inserted[0].Period != "2025-08" {
		t.Fatalf("report period = %s", reports.inserted[0].Period)
	}
}

func TestReportService_Process_DuplicateSkipped(t *testing.T) {
	projects := newStubProjectRepo()
	reports := &stubReportRepo{}
	dedup := newStubDedup()
	svc := NewReportService(projects, reports, dedup, zerolog.Nop())
	project := seedProject(t, projects)

	in := ports.ReportInput{
		ProjectID: project.ID,
		Period:    "2025-08",
		Entries:   []ports.SectionProgressInput{{SectionID: "obra-civil", Progress: 30}},
	}
	if err := svc.Process(context.Background(), in); err != nil {
		t.Fatalf("first process failed: %v", err)
	}

	// Same period again with a higher value: must be a silent no-op.
	in.Entries[0].Progress = 90
	if err := svc.Process(context.Background(), in); err != nil {
		t.Fatalf("duplicate process returned error: %v", err)
	}

	stored, _ := projects.FindByID(context.Background(), project.ID)
	if got := stored.SectionByID("obra-civil").Progress; got != 30 {
		t.Fatalf("duplicate applied: progress = %v, want 30", got)
	}
	if len(reports.inserted) != 1 {
		t.Fatalf("inserted reports = %d, want 1", len(reports.inserted))
	}
}

func TestReportService_Process_UnknownSection(t *testing.T) {
	projects := newStubProjectRepo()
	svc := NewReportService(projects, &stubReportRepo{}, newStubDedup(), zerolog.Nop())
	project := seedProject(t, projects)

	err := svc.Process(context.Background(), ports.ReportInput{
		ProjectID: project.ID,
		Period:    "2025-08",
		Entries:   []ports.SectionProgressInput{{SectionID: "no-such-section", Progress: 10}},
	})
	if !errors.Is(err, domain.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestReportService_Process_ProgressRegression(t *testing.T) {
	projects := newStubProjectRepo()
	svc := NewReportService(projects, &stubReportRepo{}, newStubDedup(), zerolog.Nop())
	project := seedProject(t, projects) // obra-civil already at 20

	err := svc.Process(context.Background(), ports.ReportInput{
		ProjectID: project.ID,
		Period:    "2025-08",
		Entries:   []ports.SectionProgressInput{{SectionID: "obra-civil", Progress: 5}},
	})
	if err == nil || !strings.Contains(err.Error(), "cannot decrease") {
		t.Fatalf("expected regression error, got %v", err)
	}

	// A rejected report must leave the project untouched.
	stored, _ := projects.FindByID(context.Background(), project.ID)
	if got := stored.SectionByID("obra-civil").Progress; got != 20 {
		t.Fatalf("progress mutated on rejected report: %v", got)
	}
}

type flakyProjectRepo struct {
	*stubProjectRepo
	failUpdates int
}

func (r *flakyProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	if r.failUpdates > 0 {
		r.failUpdates--
		return errStoreDown
	}
	return r.stubProjectRepo.Update(ctx, p)
}

func TestReportService_Process_FailedUpdateLeavesPeriodUnmarked(t *testing.T) {
	projects := &flakyProjectRepo{stubProjectRepo: newStubProjectRepo(), failUpdates: 1}
	dedup := newStubDedup()
	svc := NewReportService(projects, &stubReportRepo{}, dedup, zerolog.Nop())
	project := seedProject(t, projects.stubProjectRepo)

	in := ports.ReportInput{
		ProjectID: project.ID,
		Period:    "2025-08",
		Entries:   []ports.SectionProgressInput{{SectionID: "obra-civil", Progress: 60}},
	}
	if err := svc.Process(context.Background(), in); err == nil {
		t.Fatalf("expected error from failed update")
	}
	if dedup.seen[project.ID+"|2025-08"] {
		t.Fatalf("period marked despite failed update")
	}

	// The store recovered: the retry must go through, not hit the dedup.
	if err := svc.Process(context.Background(), in); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	stored, _ := projects.FindByID(context.Background(), project.ID)
	if got := stored.SectionByID("obra-civil").Progress; got != 60 {
		t.Fatalf("retry did not apply: progress = %v, want 60", got)
	}
	if !dedup.seen[project.ID+"|2025-08"] {
		t.Fatalf("period not marked after successful retry")
	}
}

func TestReportService_Process_ProjectNotFound(t *testing.T) {
	svc := NewReportService(newStubProjectRepo(), &stubReportRepo{}, newStubDedup(), zerolog.Nop())

	err := svc.Process(context.Background(), ports.ReportInput{
		ProjectID: "ghost",
		Period:    "2025-08",
	})
	if !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestReportService_Process_ClampsOverflow(t *testing.T) {
	projects := newStubProjectRepo()
	svc := NewReportService(projects, &stubReportRepo{}, newStubDedup(), zerolog.Nop())
	project := seedProject(t, projects)

	err := svc.Process(context.Background(), ports.ReportInput{
		ProjectID: project.ID,
		Period:    "2025-08",
		Entries:   []ports.SectionProgressInput{{SectionID: "equipamiento", Progress: 150}},
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	stored, _ := projects.FindByID(context.Background(), project.ID)
	if got := stored.SectionByID("equipamiento").Progress; got != 100 {
		t.Fatalf("progress = %v, want clamped 100", got)
	}
}
