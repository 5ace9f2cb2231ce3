package ports

import (
	"context"

	"github.com/obralink/obra-monitor/internal/core/domain"
)

// RegisterInput carries everything needed to create a new identity.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        domain.Role
	DistrictID  string
}

// AuthService turns credentials into trusted, time-bounded identity
// references and reverses that mapping on subsequent requests.
type AuthService interface {
	// Register creates a new, inactive identity pending activation.
	Register(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	// Login authenticates an active identity and issues a session token.
	// Unknown email and wrong password both return ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.Identity, error)
	// VerifyToken checks signature and expiry and returns the identity id.
	VerifyToken(token string) (string, error)
	// ResolveIdentity loads current identity state. Deactivated identities
	// return ErrIdentityInactive even when their token still verifies.
	ResolveIdentity(ctx context.Context, id string) (*domain.Identity, error)
	// ListIdentities returns all registered identities.
	ListIdentities(ctx context.Context) ([]domain.Identity, error)
	// SetActive toggles the active flag on an identity.
	SetActive(ctx context.Context, id string, active bool) error
}
