package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/obralink/obra-monitor/internal/api/metrics"
	"github.com/obralink/obra-monitor/internal/api/middleware"
	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
)

// AuthHandler handles registration, login/logout, and user administration.
type AuthHandler struct {
	authService   ports.AuthService
	cookieTTL     time.Duration
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, cookieTTL time.Duration, secureCookies bool) *AuthHandler {
	if cookieTTL <= 0 {
		cookieTTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{authService: authService, cookieTTL: cookieTTL, secureCookies: secureCookies}
}

// Register creates a new identity, inactive until a director approves it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	identity, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        domain.Role(req.Role),
		DistrictID:  req.DistrictID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			return c.JSON(http.StatusConflict, errorResponse{Error: "user already exists"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid registration details"})
		}
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{User: toIdentityResponse(identity)})
}

// Login authenticates a user and sets the session cookie.
//
// The cookie is set server-side with HttpOnly so scripts never touch the
// token. The token is also returned in the body for non-browser clients.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	token, identity, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			// One generic message whether the email or the password was wrong.
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(h.sessionCookie(token, h.cookieTTL))

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: toIdentityResponse(identity)})
}

// Logout clears the session cookie. Tokens are stateless, so there is no
// server-side session to destroy.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      204  "cookie cleared"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", -time.Hour))
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated caller's identity.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  identityResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(identity))
}

// ListUsers returns all registered identities.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  listUsersResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	identities, err := h.authService.ListIdentities(c.Request().Context())
	if err != nil {
		return err
	}

	resp := listUsersResponse{Data: make([]identityResponse, 0, len(identities))}
	for i := range identities {
		resp.Data = append(resp.Data, toIdentityResponse(&identities[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Activate enables a pending or deactivated identity.
//
// @Summary      Activate a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      204  "activated"
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id}/activate [post]
func (h *AuthHandler) Activate(c echo.Context) error {
	return h.setActive(c, true)
}

// Deactivate disables an identity; outstanding tokens fail closed from the
// next request on.
//
// @Summary      Deactivate a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      204  "deactivated"
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id}/deactivate [post]
func (h *AuthHandler) Deactivate(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *AuthHandler) setActive(c echo.Context, active bool) error {
	if err := h.authService.SetActive(c.Request().Context(), c.Param("id"), active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) sessionCookie(token string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func toIdentityResponse(id *domain.Identity) identityResponse {
	return identityResponse{
		ID:          id.ID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Role:        string(id.Role),
		DistrictID:  id.DistrictID,
		Active:      id.Active,
		CreatedAt:   id.CreatedAt,
	}
}
