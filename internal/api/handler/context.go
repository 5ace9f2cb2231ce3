package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obralink/obra-monitor/internal/api/middleware"
	"github.com/obralink/obra-monitor/internal/core/domain"
)

// currentIdentity extracts the identity injected by the Authenticate
// middleware. Its presence proves the guard ran; a nil identity on a
// protected route means the route was wired without the middleware — treat
// it as unauthenticated rather than panic.
func currentIdentity(c echo.Context) (*domain.Identity, error) {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return identity, nil
}
