package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/infinitetechnologys/crm/internal/api/dto"
	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/service"
)

// DashboardHandler exposes the per-agent home screen.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Stats handles GET /dashboard.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	stats, err := h.service.Stats(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDashboardResponse(stats)})
}
