package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ipsfulano/clinical-records-api/internal/api/metrics"
	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

// AuthHandler handles login and token verification.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type verifyResponse struct {
	User *domain.User `json:"user"`
}

// Login authenticates a staff member and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// Verify resolves the bearer token to its user summary.
//
// @Summary      Verify token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  verifyResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Verify(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, verifyResponse{User: user})
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserDeactivated):
		return "deactivated"
	case errors.Is(err, domain.ErrTooManyLogins):
		return "throttled"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid"
	default:
		return "error"
	}
}
