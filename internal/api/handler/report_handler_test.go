package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
)

type stubProjectRepo struct {
	project *domain.Project
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	return p, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	if r.project != nil && r.project.ID == id {
		return r.project, nil
	}
	return nil, domain.ErrProjectNotFound
}

func (r *stubProjectRepo) FindByContractNumber(context.Context, string) (*domain.Project, error) {
	return nil, domain.ErrProjectNotFound
}

func (r *stubProjectRepo) List(context.Context, ports.ProjectFilter) ([]domain.Project, int64, error) {
	return nil, 0, nil
}

func (r *stubProjectRepo) Update(context.Context, *domain.Project) error { return nil }
func (r *stubProjectRepo) Delete(context.Context, string) error          { return nil }

type stubReportRepo struct {
	reports []domain.ProgressReport
}

func (r *stubReportRepo) Insert(_ context.Context, rep *domain.ProgressReport) error {
	r.reports = append(r.reports, *rep)
	return nil
}

func (r *stubReportRepo) ListByProject(_ context.Context, projectID string) ([]domain.ProgressReport, error) {
	var out []domain.ProgressReport
	for _, rep := range r.reports {
		if rep.ProjectID == projectID {
			out = append(out, rep)
		}
	}
	return out, nil
}

type captureDispatcher struct {
	enqueued []ports.ReportInput
}

func (d *captureDispatcher) Enqueue(in ports.ReportInput) {
	d.enqueued = append(d.enqueued, in)
}

func newReportContext(t *testing.T, identity *domain.Identity, projectID, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, rec := newTestContext(t, http.MethodPost, "/v1/projects/"+projectID+"/reports", body)
	c.SetParamNames("id")
	c.SetParamValues(projectID)
	if identity != nil {
		c.Set("identity", identity)
	}
	return c, rec
}

func TestReportHandler_Submit_Accepted(t *testing.T) {
	projects := &stubProjectRepo{project: &domain.Project{ID: "prj-1", DistrictID: "d1"}}
	dispatcher := &captureDispatcher{}
	h := NewReportHandler(dispatcher, projects, &stubReportRepo{})

	identity := &domain.Identity{ID: "id-1", Role: domain.RoleProjectEngineer, DistrictID: "d1", Active: true}
	body := `{"period":"2025-08","entries":[{"section_id":"obra-civil","progress":45}]}`
	c, rec := newReportContext(t, identity, "prj-1", body)

	if err := h.Submit(c); err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if len(dispatcher.enqueued) != 1 {
		t.Fatalf("enqueued = %d, want 1", len(dispatcher.enqueued))
	}
	got := dispatcher.enqueued[0]
	if got.ProjectID != "prj-1" || got.Period != "2025-08" || got.ReportedBy != "id-1" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestReportHandler_Submit_EngineerOutsideDistrict(t *testing.T) {
	projects := &stubProjectRepo{project: &domain.Project{ID: "prj-1", DistrictID: "d1"}}
	dispatcher := &captureDispatcher{}
	h := NewReportHandler(dispatcher, projects, &stubReportRepo{})

	identity := &domain.Identity{ID: "id-1", Role: domain.RoleProjectEngineer, DistrictID: "d2", Active: true}
	body := `{"period":"2025-08","entries":[{"section_id":"obra-civil","progress":45}]}`
	c, _ := newReportContext(t, identity, "prj-1", body)

	if err := h.Submit(c); err != domain.ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if len(dispatcher.enqueued) != 0 {
		t.Fatalf("report enqueued despite denial")
	}
}

func TestReportHandler_Submit_UnknownProject(t *testing.T) {
	h := NewReportHandler(&captureDispatcher{}, &stubProjectRepo{}, &stubReportRepo{})

	identity := &domain.Identity{ID: "id-1", Role: domain.RoleDirector, Active: true}
	body := `{"period":"2025-08","entries":[{"section_id":"s1","progress":10}]}`
	c, _ := newReportContext(t, identity, "ghost", body)

	if err := h.Submit(c); err != domain.ErrProjectNotFound {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestReportHandler_Submit_BadPeriod(t *testing.T) {
	projects := &stubProjectRepo{project: &domain.Project{ID: "prj-1", DistrictID: "d1"}}
	identity := &domain.Identity{ID: "id-1", Role: domain.RoleDirector, Active: true}

	// Wrong length, and well-formed length with garbage content. Each must
	// be rejected before anything reaches the queue.
	for _, period := range []string{"August 2025", "2025/13", "ABCDEFG", "2025-13", "2025-1"} {
		dispatcher := &captureDispatcher{}
		h := NewReportHandler(dispatcher, projects, &stubReportRepo{})

		body := `{"period":"` + period + `","entries":[{"section_id":"s1","progress":10}]}`
		c, _ := newReportContext(t, identity, "prj-1", body)

		err := h.Submit(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnprocessableEntity {
			t.Fatalf("period %q: expected 422, got %v", period, err)
		}
		if len(dispatcher.enqueued) != 0 {
			t.Fatalf("period %q: report enqueued despite invalid period", period)
		}
	}
}

func TestReportHandler_Submit_NoIdentity(t *testing.T) {
	h := NewReportHandler(&captureDispatcher{}, &stubProjectRepo{}, &stubReportRepo{})

	c, _ := newReportContext(t, nil, "prj-1", `{}`)
	err := h.Submit(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestReportHandler_List(t *testing.T) {
	projects := &stubProjectRepo{project: &domain.Project{ID: "prj-1", DistrictID: "d1"}}
	reports := &stubReportRepo{reports: []domain.ProgressReport{
		{ID: "r1", ProjectID: "prj-1", Period: "2025-07"},
		{ID: "r2", ProjectID: "other", Period: "2025-07"},
	}}
	h := NewReportHandler(&captureDispatcher{}, projects, reports)

	c, rec := newTestContext(t, http.MethodGet, "/v1/projects/prj-1/reports", "")
	c.SetParamNames("id")
	c.SetParamValues("prj-1")

	if err := h.List(c); err != nil {
		t.Fatalf("list error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"id":"r1"`) || strings.Contains(rec.Body.String(), `"id":"r2"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
