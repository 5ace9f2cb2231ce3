package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obralink/obra-monitor/internal/api/metrics"
	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
)

// ProjectHandler handles project CRUD and lifecycle endpoints.
type ProjectHandler struct {
	projectService ports.ProjectService
}

func NewProjectHandler(projectService ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create handles POST /v1/projects.
//
// @Summary      Register a new project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  projectResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	project, err := h.projectService.Create(c.Request().Context(), ports.CreateProjectInput{
		ContractNumber: req.ContractNumber,
		Name:           req.Name,
		DistrictID:     req.DistrictID,
		Description:    req.Description,
		Budget:         req.Budget,
		Sections:       toSectionInputs(req.Sections),
		CreatedBy:      identity.ID,
	})
	if err != nil {
		return err
	}

	metrics.ProjectsCreatedTotal.WithLabelValues(project.DistrictID).Inc()
	return c.JSON(http.StatusCreated, toProjectResponse(project))
}

// Get handles GET /v1/projects/:id.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  projectResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	project, err := h.projectService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// List handles GET /v1/projects.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     CookieAuth
// @Param        district_id  query     string  false  "Filter by district"
// @Param        status       query     string  false  "Filter by status"
// @Param        page         query     int     false  "Page (1-based)"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Success      200  {object}  listProjectsResponse
// @Router       /v1/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	var in ports.ListProjectsInput
	in.DistrictID = c.QueryParam("district_id")
	in.Status = c.QueryParam("status")
	in.Page = queryInt(c, "page")
	in.Limit = queryInt(c, "limit")

	result, err := h.projectService.List(c.Request().Context(), in)
	if err != nil {
		return err
	}

	resp := listProjectsResponse{
		Data: make([]projectResponse, 0, len(result.Projects)),
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: totalPages(result.Total, result.Limit),
		},
	}
	for i := range result.Projects {
		resp.Data = append(resp.Data, toProjectResponse(&result.Projects[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Update handles PUT /v1/projects/:id.
//
// @Summary      Update project details
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                true  "Project id"
// @Param        body  body      updateProjectRequest  true  "Mutable fields"
// @Success      200   {object}  projectResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	project, err := h.projectService.Update(c.Request().Context(), c.Param("id"), ports.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Budget:      req.Budget,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// Approve handles POST /v1/projects/:id/approve.
//
// @Summary      Approve a planned project
// @Tags         projects
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  projectResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/projects/{id}/approve [post]
func (h *ProjectHandler) Approve(c echo.Context) error {
	project, err := h.projectService.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// ChangeStatus handles POST /v1/projects/:id/status.
//
// @Summary      Change project status
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string               true  "Project id"
// @Param        body  body      changeStatusRequest  true  "Target status"
// @Success      200   {object}  projectResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/projects/{id}/status [post]
func (h *ProjectHandler) ChangeStatus(c echo.Context) error {
	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	project, err := h.projectService.ChangeStatus(c.Request().Context(), c.Param("id"), domain.ProjectStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// ReplaceSections handles PUT /v1/projects/:id/sections.
//
// @Summary      Replace a project's section list
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                  true  "Project id"
// @Param        body  body      replaceSectionsRequest  true  "New section list"
// @Success      200   {object}  projectResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/projects/{id}/sections [put]
func (h *ProjectHandler) ReplaceSections(c echo.Context) error {
	var req replaceSectionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	project, err := h.projectService.ReplaceSections(c.Request().Context(), c.Param("id"), toSectionInputs(req.Sections))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// Delete handles DELETE /v1/projects/:id.
//
// @Summary      Delete a project
// @Tags         projects
// @Security     CookieAuth
// @Param        id   path  string  true  "Project id"
// @Success      204  "deleted"
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.projectService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
