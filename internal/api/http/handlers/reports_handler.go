package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/service"
)

// ReportsHandler exposes the sales report endpoint.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Overview handles GET /reports/overview.
func (h *ReportsHandler) Overview(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	year := queryInt(c, "year", time.Now().Year())
	report, err := h.service.Overview(c.UserContext(), sess, queryInt64(c, "agent_id"), year)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}
