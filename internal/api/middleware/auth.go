package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/obralink/obra-monitor/internal/core/domain"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "auth-token"

// identityKey is the echo context key holding the resolved *domain.Identity.
const identityKey = "identity"

// IdentityResolver is the subset of the auth service the guard needs.
type IdentityResolver interface {
	VerifyToken(token string) (string, error)
	ResolveIdentity(ctx context.Context, id string) (*domain.Identity, error)
}

// Authenticate validates the session token and injects the freshly resolved
// identity into the request context. The token is read from the auth cookie,
// falling back to an Authorization bearer header for non-browser clients.
//
// The identity is re-read from the store on every request: role changes and
// deactivation take effect immediately, without waiting for token expiry.
func Authenticate(resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			identityID, err := resolver.VerifyToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			identity, err := resolver.ResolveIdentity(c.Request().Context(), identityID)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrIdentityInactive), errors.Is(err, domain.ErrUserNotFound):
					// A verifiable token for a deactivated or deleted account
					// still fails closed.
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
				default:
					return err
				}
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// IdentityFromContext returns the identity stored by Authenticate, or nil.
func IdentityFromContext(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}

func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
