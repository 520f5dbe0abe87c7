package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"openshelf/internal/adapters/http/middleware"
	"openshelf/internal/core/domain"
	"openshelf/internal/core/services"
	"openshelf/internal/pkg/pagination"
	"openshelf/internal/pkg/response"
)

// UserHandler handles user administration endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateRolesRequest represents role assignment request
type UpdateRolesRequest struct {
	Roles []string `json:"roles"`
}

// SetActiveRequest represents account activation request
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// List lists users
// @Summary List users
// @Description List users with pagination (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.ListUsersInput{
		Offset: params.Offset,
		Limit:  params.Limit,
	}

	result, err := h.userService.ListUsers(c.Context(), input, middleware.CallerFromCtx(c))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "Admin access required")
		}
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", fiber.Map{
		"users":      result.Users,
		"pagination": pagination.GetMeta(params, result.Total),
	})
}

// Get gets a single user
// @Summary Get user
// @Description Get a user by ID (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUser(c.Context(), uint(id), middleware.CallerFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Admin access required")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to get user")
		}
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user,
	})
}

// ListRoles lists the assignable roles
// @Summary List roles
// @Description List the assignable roles (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/roles [get]
func (h *UserHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.userService.ListRoles(c.Context(), middleware.CallerFromCtx(c))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "Admin access required")
		}
		return response.InternalServerError(c, "Failed to list roles")
	}

	return response.Success(c, "Roles retrieved successfully", fiber.Map{
		"roles": roles,
	})
}

// UpdateRoles replaces a user's roles
// @Summary Update user roles
// @Description Replace a user's role set (admin only, not your own account)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body UpdateRolesRequest true "Role names"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/roles [put]
func (h *UserHandler) UpdateRoles(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req UpdateRolesRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateRolesInput{Roles: req.Roles}

	user, err := h.userService.UpdateUserRoles(c.Context(), uint(id), input, middleware.CallerFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Admin access required")
		case errors.Is(err, services.ErrCannotChangeOwnRoles):
			return response.Forbidden(c, "Cannot change your own roles")
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Unknown role name")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "At least one role is required")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to update roles")
		}
	}

	return response.Success(c, "Roles updated successfully", fiber.Map{
		"user": user,
	})
}

// SetActive enables or disables an account
// @Summary Activate or deactivate user
// @Description Enable or disable an account (admin only, not your own account)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body SetActiveRequest true "Activation flag"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/active [put]
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetActive(c.Context(), uint(id), req.IsActive, middleware.CallerFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Admin access required")
		case errors.Is(err, services.ErrCannotEditSelf):
			return response.Forbidden(c, "Cannot change your own account status")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", fiber.Map{
		"user": user,
	})
}
