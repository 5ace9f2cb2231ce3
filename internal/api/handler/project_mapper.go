package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
)

// queryInt parses an integer query parameter, returning 0 when absent or invalid.
func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

// toSectionInputs maps request sections to the service DTO.
func toSectionInputs(in []sectionRequest) []ports.SectionInput {
	out := make([]ports.SectionInput, 0, len(in))
	for _, s := range in {
		out = append(out, ports.SectionInput{
			ID:       s.ID,
			Name:     s.Name,
			Trade:    s.Trade,
			Weight:   s.Weight,
			Progress: s.Progress,
		})
	}
	return out
}

// toProjectResponse maps a domain project to the transport view.
func toProjectResponse(p *domain.Project) projectResponse {
	sections := make([]sectionResponse, 0, len(p.Sections))
	for _, s := range p.Sections {
		sections = append(sections, sectionResponse{
			ID:       s.ID,
			Name:     s.Name,
			Trade:    s.Trade,
			Weight:   s.Weight,
			Progress: s.Progress,
		})
	}
	return projectResponse{
		ID:             p.ID,
		ContractNumber: p.ContractNumber,
		Name:           p.Name,
		DistrictID:     p.DistrictID,
		Description:    p.Description,
		Budget:         p.Budget,
		Status:         string(p.Status),
		Progress:       p.Progress,
		Sections:       sections,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
