package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
)

type districtRequest struct {
	Name   string `json:"name"   validate:"required"`
	Code   string `json:"code"   validate:"required"`
	Region string `json:"region"`
}

type districtResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Region    string    `json:"region,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listDistrictsResponse struct {
	Data []districtResponse `json:"data"`
}

// DistrictHandler handles district CRUD endpoints.
type DistrictHandler struct {
	repo ports.DistrictRepository
}

func NewDistrictHandler(repo ports.DistrictRepository) *DistrictHandler {
	return &DistrictHandler{repo: repo}
}

// Create handles POST /v1/districts.
//
// @Summary      Create a district
// @Tags         districts
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      districtRequest  true  "District details"
// @Success      201   {object}  districtResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/districts [post]
func (h *DistrictHandler) Create(c echo.Context) error {
	var req districtRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	now := time.Now().UTC()
	district, err := h.repo.Create(c.Request().Context(), &domain.District{
		Name:      req.Name,
		Code:      req.Code,
		Region:    req.Region,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toDistrictResponse(district))
}

// List handles GET /v1/districts.
//
// @Summary      List districts
// @Tags         districts
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  listDistrictsResponse
// @Router       /v1/districts [get]
func (h *DistrictHandler) List(c echo.Context) error {
	districts, err := h.repo.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := listDistrictsResponse{Data: make([]districtResponse, 0, len(districts))}
	for i := range districts {
		resp.Data = append(resp.Data, toDistrictResponse(&districts[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Update handles PUT /v1/districts/:id.
//
// @Summary      Update a district
// @Tags         districts
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string           true  "District id"
// @Param        body  body      districtRequest  true  "District details"
// @Success      200   {object}  districtResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/districts/{id} [put]
func (h *DistrictHandler) Update(c echo.Context) error {
	var req districtRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	district, err := h.repo.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	district.Name = req.Name
	district.Code = req.Code
	district.Region = req.Region
	district.UpdatedAt = time.Now().UTC()

	if err := h.repo.Update(c.Request().Context(), district); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDistrictResponse(district))
}

func toDistrictResponse(d *domain.District) districtResponse {
	return districtResponse{
		ID:        d.ID,
		Name:      d.Name,
		Code:      d.Code,
		Region:    d.Region,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
