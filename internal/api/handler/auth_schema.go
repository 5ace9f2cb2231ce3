package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required"`
	Role        string `json:"role"         validate:"required,oneof=director project_engineer project_manager viewer"`
	DistrictID  string `json:"district_id"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// identityResponse is the public view of an identity. The password hash
// never leaves the domain type, but being explicit here keeps the JSON
// contract independent of internal changes.
type identityResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	DistrictID  string    `json:"district_id,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  identityResponse `json:"user"`
}

type registerResponse struct {
	User identityResponse `json:"user"`
}

type listUsersResponse struct {
	Data []identityResponse `json:"data"`
}
