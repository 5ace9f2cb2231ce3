package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
)

type sectionProgressRequest struct {
	SectionID string  `json:"section_id" validate:"required"`
	Progress  float64 `json:"progress"   validate:"gte=0,lte=100"`
}

type submitReportRequest struct {
	Period  string                   `json:"period"  validate:"required,len=7,datetime=2006-01"` // YYYY-MM
	Entries []sectionProgressRequest `json:"entries" validate:"required,min=1,dive"`
	Notes   string                   `json:"notes"`
}

type acceptedResponse struct {
	Message string `json:"message"`
}

type sectionProgressResponse struct {
	SectionID string  `json:"section_id"`
	Progress  float64 `json:"progress"`
}

type reportResponse struct {
	ID         string                    `json:"id"`
	ProjectID  string                    `json:"project_id"`
	Period     string                    `json:"period"`
	ReportedBy string                    `json:"reported_by"`
	Entries    []sectionProgressResponse `json:"entries"`
	Notes      string                    `json:"notes,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
}

type listReportsResponse struct {
	Data []reportResponse `json:"data"`
}

// ReportDispatcher is the interface the handler uses to enqueue reports.
type ReportDispatcher interface {
	Enqueue(report ports.ReportInput)
}

// ReportHandler handles progress report submission and retrieval.
type ReportHandler struct {
	dispatcher ReportDispatcher
	projects   ports.ProjectRepository
	reports    ports.ReportRepository
}

func NewReportHandler(dispatcher ReportDispatcher, projects ports.ProjectRepository, reports ports.ReportRepository) *ReportHandler {
	return &ReportHandler{dispatcher: dispatcher, projects: projects, reports: reports}
}

// Submit handles POST /v1/projects/:id/reports — enqueues the report, returns 202.
//
// Reports apply asynchronously, sharded by project so reports for one
// project keep submission order.
//
// @Summary      Submit a progress report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string               true  "Project id"
// @Param        body  body      submitReportRequest  true  "Progress report"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/projects/{id}/reports [post]
func (h *ReportHandler) Submit(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req submitReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	project, err := h.projects.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	// Engineers bound to a district may only report on that district's projects.
	if identity.Role == domain.RoleProjectEngineer &&
		identity.DistrictID != "" && identity.DistrictID != project.DistrictID {
		return domain.ErrPermissionDenied
	}

	in := ports.ReportInput{
		ProjectID:  project.ID,
		Period:     req.Period,
		ReportedBy: identity.ID,
		Notes:      req.Notes,
	}
	for _, e := range req.Entries {
		in.Entries = append(in.Entries, ports.SectionProgressInput{SectionID: e.SectionID, Progress: e.Progress})
	}

	h.dispatcher.Enqueue(in)
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "report accepted"})
}

// List handles GET /v1/projects/:id/reports.
//
// @Summary      List a project's progress reports
// @Tags         reports
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  listReportsResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id}/reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	project, err := h.projects.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	reports, err := h.reports.ListByProject(c.Request().Context(), project.ID)
	if err != nil {
		return err
	}

	resp := listReportsResponse{Data: make([]reportResponse, 0, len(reports))}
	for i := range reports {
		resp.Data = append(resp.Data, toReportResponse(&reports[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func toReportResponse(r *domain.ProgressReport) reportResponse {
	entries := make([]sectionProgressResponse, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, sectionProgressResponse{SectionID: e.SectionID, Progress: e.Progress})
	}
	return reportResponse{
		ID:         r.ID,
		ProjectID:  r.ProjectID,
		Period:     r.Period,
		ReportedBy: r.ReportedBy,
		Entries:    entries,
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt,
	}
}
