package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/http/middleware"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
	"github.com/shemul345/Life-O-positive-server/internal/core/services"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/pagination"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/response"
)

// DonationRequestHandler handles donation request endpoints
type DonationRequestHandler struct {
	requestService *services.DonationRequestService
}

// NewDonationRequestHandler creates a new donation request handler
func NewDonationRequestHandler(requestService *services.DonationRequestService) *DonationRequestHandler {
	return &DonationRequestHandler{
		requestService: requestService,
	}
}

// Create handles creating a donation request
// @Summary Create donation request
// @Description Create a pending request owned by the caller
// @Tags Donation Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateDonationRequestInput true "Request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /donation-requests [post]
func (h *DonationRequestHandler) Create(c *fiber.Ctx) error {
	var input services.CreateDonationRequestInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}

	request, err := h.requestService.Create(c.UserContext(), middleware.Principal(c), &input)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Donation request created successfully", request)
}

// ListMine handles listing the caller's requests
// @Summary List own donation requests
// @Tags Donation Requests
// @Produce json
// @Security BearerAuth
// @Param email query string true "Own email"
// @Param status query string false "Status filter or all"
// @Param limit query int false "Maximum number of requests"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /donation-requests [get]
func (h *DonationRequestHandler) ListMine(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return response.FromError(c, fmt.Errorf("%w: invalid limit", domain.ErrInvalidRequest))
		}
		limit = parsed
	}

	requests, err := h.requestService.ListMine(c.UserContext(), middleware.Principal(c), &services.ListMineInput{
		Status: c.Query("status"),
		Limit:  limit,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Donation requests retrieved successfully", requests)
}

// Get handles fetching one request
// @Summary Get donation request
// @Tags Donation Requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /donation-requests/{id} [get]
func (h *DonationRequestHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	request, err := h.requestService.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Donation request retrieved successfully", request)
}

// ListAll handles the staff listing across all owners
// @Summary List all donation requests
// @Description Paginated listing for admins and volunteers
// @Tags Donation Requests
// @Produce json
// @Security BearerAuth
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Items per page" default(15)
// @Param status query string false "Status filter or all"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /all-blood-donation-requests [get]
func (h *DonationRequestHandler) ListAll(c *fiber.Ctx) error {
	page, err := h.requestService.ListAll(c.UserContext(), &services.ListAllInput{
		Params: pagination.GetParams(c),
		Status: c.Query("status"),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, "Donation requests retrieved successfully", page)
}

// ListPending handles the public pending list
// @Summary List pending donation requests
// @Tags Donation Requests
// @Produce json
// @Param limit query int false "Maximum number of requests"
// @Success 200 {object} response.Response
// @Router /pending-requests [get]
func (h *DonationRequestHandler) ListPending(c *fiber.Ctx) error {
	requests, err := h.requestService.ListPending(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Pending requests retrieved successfully", requests)
}

// Accept handles a donor accepting a request
// @Summary Accept donation request
// @Description Move a request to inprogress and record the donor
// @Tags Donation Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body services.AcceptInput true "Donor"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /donation-requests/accept/{id} [patch]
func (h *DonationRequestHandler) Accept(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var input services.AcceptInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}

	request, err := h.requestService.Accept(c.UserContext(), id, &input)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Donation request accepted", request)
}

// UpdateStatus handles explicit status changes
// @Summary Update donation status
// @Tags Donation Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body services.UpdateStatusInput true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /donation-requests/status/{id} [patch]
func (h *DonationRequestHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var input services.UpdateStatusInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}

	request, err := h.requestService.UpdateStatus(c.UserContext(), id, &input)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Donation status updated", request)
}

// Delete handles deleting a request (owner or admin)
// @Summary Delete donation request
// @Tags Donation Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /donation-requests/{id} [delete]
func (h *DonationRequestHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.requestService.Delete(c.UserContext(), middleware.Principal(c), id); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Donation request deleted successfully", nil)
}
