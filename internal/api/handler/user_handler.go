package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ipsfulano/clinical-records-api/internal/api/metrics"
	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

// UserHandler handles staff account management.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Role membership is validated by the service against the configured
// role sets, which differ between the two creation entry points.
type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required"`
}

type updateUserRequest struct {
	Name   *string `json:"name"      validate:"omitempty,min=1"`
	Email  *string `json:"email"     validate:"omitempty,email"`
	Role   *string `json:"role"      validate:"omitempty,min=1"`
	Active *bool   `json:"is_active"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// CreateInitial is the public signup entry point.
//
// @Summary      Public staff signup
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/create-initial [post]
func (h *UserHandler) CreateInitial(c echo.Context) error {
	user, err := h.create(c, h.userService.CreateInitial)
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.WithLabelValues("signup").Inc()
	return c.JSON(http.StatusCreated, createdResponse{ID: user.ID})
}

// Create is the admin-only creation entry point.
//
// @Summary      Create staff account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	user, err := h.create(c, h.userService.Create)
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.WithLabelValues("admin").Inc()
	return c.JSON(http.StatusCreated, createdResponse{ID: user.ID})
}

// List returns every staff account, newest first.
//
// @Summary      List staff accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   map[string]any
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// GetByID returns a single staff account.
//
// @Summary      Get staff account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "User id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update applies a partial update to an account.
//
// @Summary      Update staff account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	upd := ports.UserUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Active: req.Active,
	}
	if err := h.userService.Update(c.Request().Context(), id, upd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user updated"})
}

// Delete soft-deletes an account: the row stays, logins stop.
//
// @Summary      Deactivate staff account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.userService.SoftDelete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deactivated"})
}

func (h *UserHandler) create(c echo.Context, fn func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error)) (*domain.User, error) {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return fn(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
}
