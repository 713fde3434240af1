package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/http/middleware"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
	"github.com/shemul345/Life-O-positive-server/internal/core/services"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/pagination"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/response"
)

// UserHandler handles account endpoints
type UserHandler struct {
	accountService *services.AccountService
}

// NewUserHandler creates a new user handler
func NewUserHandler(accountService *services.AccountService) *UserHandler {
	return &UserHandler{
		accountService: accountService,
	}
}

// SetRoleRequest represents the role change body
type SetRoleRequest struct {
	Role domain.Role `json:"role"`
}

// SetStatusRequest represents the status change body
type SetStatusRequest struct {
	Status domain.AccountStatus `json:"status"`
}

// Register handles idempotent account registration
// @Summary Register account
// @Description Create an account for an email. Registering an existing email returns the stored account.
// @Tags Users
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Account data"
// @Success 200 {object} response.Response
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}

	account, created, err := h.accountService.Register(c.UserContext(), &input)
	if err != nil {
		return response.FromError(c, err)
	}

	if !created {
		return response.Success(c, "User already exists", account)
	}
	return response.Created(c, "User registered successfully", account)
}

// GetRole handles role lookup
// @Summary Get role by email
// @Description Returns the stored role, or donor when no account exists
// @Tags Users
// @Produce json
// @Param email path string true "Account email"
// @Success 200 {object} response.Response
// @Router /users/{email}/role [get]
func (h *UserHandler) GetRole(c *fiber.Ctx) error {
	role, err := h.accountService.GetRole(c.UserContext(), c.Params("email"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Role retrieved successfully", fiber.Map{
		"role": role,
	})
}

// ListUsers handles listing all accounts (Admin only)
// @Summary List accounts
// @Description Get a paginated list of accounts (Admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Items per page" default(15)
// @Param status query string false "active, blocked or all"
// @Param role query string false "donor, volunteer, admin or all"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page, err := h.accountService.ListAccounts(c.UserContext(), &services.ListAccountsInput{
		Params: pagination.GetParams(c),
		Status: c.Query("status"),
		Role:   c.Query("role"),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, "Users retrieved successfully", page)
}

// SetRole handles role changes (Admin only)
// @Summary Change role
// @Description Set the role of an account (Admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body SetRoleRequest true "New role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/role/{id} [patch]
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req SetRoleRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	account, err := h.accountService.SetRole(c.UserContext(), middleware.Principal(c), id, req.Role)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Role updated successfully", account)
}

// SetStatus handles blocking and unblocking (Admin only)
// @Summary Change account status
// @Description Block or unblock an account (Admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body SetStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/status/{id} [patch]
func (h *UserHandler) SetStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req SetStatusRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	account, err := h.accountService.SetStatus(c.UserContext(), middleware.Principal(c), id, req.Status)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Status updated successfully", account)
}

// DeleteUser handles account deletion (Admin only)
// @Summary Delete account
// @Description Permanently delete an account (Admin only, not self)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.accountService.Delete(c.UserContext(), middleware.Principal(c), id); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "User deleted successfully", nil)
}

// GetProfile handles reading own profile
// @Summary Get profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param email path string true "Own email"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /profile/{email} [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	account, err := h.accountService.GetProfile(c.UserContext(), middleware.Principal(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Profile retrieved successfully", account)
}

// UpdateProfile handles updating own profile
// @Summary Update profile
// @Description Update the client-writable profile fields
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param email path string true "Own email"
// @Param body body services.ProfileInput true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /profile/{email} [patch]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var input services.ProfileInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}

	account, err := h.accountService.UpdateProfile(c.UserContext(), middleware.Principal(c), &input)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Profile updated successfully", account)
}

// SearchDonors handles the public donor search
// @Summary Search donors
// @Description Active donors filtered by blood group and location
// @Tags Users
// @Produce json
// @Param bloodGroup query string false "Blood group"
// @Param district query string false "District"
// @Param subDistrict query string false "Sub-district"
// @Success 200 {object} response.Response
// @Router /donors-search [get]
func (h *UserHandler) SearchDonors(c *fiber.Ctx) error {
	donors, err := h.accountService.SearchDonors(c.UserContext(), &services.DonorSearchInput{
		BloodGroup:  c.Query("bloodGroup"),
		District:    c.Query("district"),
		SubDistrict: c.Query("subDistrict"),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Donors retrieved successfully", donors)
}
