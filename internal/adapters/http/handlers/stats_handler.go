package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shemul345/Life-O-positive-server/internal/core/services"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/response"
)

// StatsHandler handles dashboard endpoints
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// AdminStats handles the admin dashboard
// @Summary Admin statistics
// @Description Account counts, request counts per status and total funding (Admin only)
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin-stats [get]
func (h *StatsHandler) AdminStats(c *fiber.Ctx) error {
	stats, err := h.statsService.GetAdminStats(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Dashboard data retrieved successfully", stats)
}
