package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shemul345/Life-O-positive-server/internal/core/services"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/pagination"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/response"
)

// FundingHandler handles funding endpoints
type FundingHandler struct {
	fundingService *services.FundingService
}

// NewFundingHandler creates a new funding handler
func NewFundingHandler(fundingService *services.FundingService) *FundingHandler {
	return &FundingHandler{
		fundingService: fundingService,
	}
}

// CreateCheckout handles opening a checkout session
// @Summary Create funding checkout
// @Description Open a hosted checkout session for a contribution
// @Tags Funding
// @Accept json
// @Produce json
// @Param body body services.CheckoutInput true "Contribution"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /create-funding-checkout [post]
func (h *FundingHandler) CreateCheckout(c *fiber.Ctx) error {
	var input services.CheckoutInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}

	out, err := h.fundingService.CreateCheckout(c.UserContext(), &input)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Checkout session created", out)
}

// Confirm handles recording a completed payment
// @Summary Confirm funding payment
// @Description Record the payment behind a checkout session exactly once
// @Tags Funding
// @Produce json
// @Param session_id query string true "Checkout session ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /funding-success [patch]
func (h *FundingHandler) Confirm(c *fiber.Ctx) error {
	result, err := h.fundingService.Confirm(c.UserContext(), c.Query("session_id"))
	if err != nil {
		return response.FromError(c, err)
	}

	message := "Payment recorded"
	if result.Replayed {
		message = "Payment already recorded"
	}
	return response.Success(c, message, result)
}

// List handles the funding ledger
// @Summary List fundings
// @Tags Funding
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Items per page" default(15)
// @Success 200 {object} response.Response
// @Router /all-fundings [get]
func (h *FundingHandler) List(c *fiber.Ctx) error {
	page, err := h.fundingService.List(c.UserContext(), pagination.GetParams(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, "Fundings retrieved successfully", page)
}
