package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obralink/obra-monitor/internal/api/metrics"
	"github.com/obralink/obra-monitor/internal/core/domain"
)

// RequireCapability enforces that the resolved identity's role holds the
// capability. It runs strictly before the handler body, so a rejected
// request never reaches business logic.
func RequireCapability(cap domain.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFromContext(c)
			if !domain.HasPermission(identity, cap) {
				metrics.PermissionDeniedTotal.WithLabelValues(string(cap)).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "not authorized"})
			}
			return next(c)
		}
	}
}
