package handler

import "time"

type sectionRequest struct {
	ID       string  `json:"id"       validate:"required"`
	Name     string  `json:"name"     validate:"required"`
	Trade    string  `json:"trade"    validate:"required"`
	Weight   float64 `json:"weight"   validate:"required,gt=0,lte=100"`
	Progress float64 `json:"progress" validate:"gte=0,lte=100"`
}

type createProjectRequest struct {
	ContractNumber string           `json:"contract_number" validate:"required"`
	Name           string           `json:"name"            validate:"required"`
	DistrictID     string           `json:"district_id"     validate:"required"`
	Description    string           `json:"description"`
	Budget         float64          `json:"budget"          validate:"required,gt=0"`
	Sections       []sectionRequest `json:"sections"        validate:"dive"`
}

type updateProjectRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget" validate:"gte=0"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved in_progress suspended completed cancelled"`
}

type replaceSectionsRequest struct {
	Sections []sectionRequest `json:"sections" validate:"required,min=1,dive"`
}

type sectionResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Trade    string  `json:"trade"`
	Weight   float64 `json:"weight"`
	Progress float64 `json:"progress"`
}

type projectResponse struct {
	ID             string            `json:"id"`
	ContractNumber string            `json:"contract_number"`
	Name           string            `json:"name"`
	DistrictID     string            `json:"district_id"`
	Description    string            `json:"description,omitempty"`
	Budget         float64           `json:"budget"`
	Status         string            `json:"status"`
	Progress       float64           `json:"progress"`
	Sections       []sectionResponse `json:"sections"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listProjectsResponse struct {
	Data       []projectResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
