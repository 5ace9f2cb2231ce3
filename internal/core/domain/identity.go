package domain

import "time"

// Role is one of the fixed access tiers. It is an attribute of an Identity,
// not a stored entity — the permission set for each role is compile-time known.
type Role string

const (
	RoleDirector        Role = "director"
	RoleProjectEngineer Role = "project_engineer"
	RoleProjectManager  Role = "project_manager"
	RoleViewer          Role = "viewer"
)

// ValidRole reports whether r belongs to the closed role enumeration.
func ValidRole(r Role) bool {
	switch r {
	case RoleDirector, RoleProjectEngineer, RoleProjectManager, RoleViewer:
		return true
	}
	return false
}

// Identity models a registered user account. Accounts are never physically
// deleted; deactivation flips Active and every token check fails closed.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	DistrictID   string    `json:"district_id,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
