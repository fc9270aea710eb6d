package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/infinitetechnologys/crm/internal/api/dto"
	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/service"
)

// ActivityHandler exposes the admin audit trail endpoints.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: activityService}
}

// List handles GET /activity.
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	filter := service.LogFilter{
		UserID:     queryInt64(c, "user_id"),
		EntityType: queryString(c, "entity_type"),
		Limit:      queryInt(c, "limit", 0),
	}
	if action := c.Query("action"); action != "" {
		a := domain.ActivityAction(action)
		filter.Action = &a
	}
	if onDate := c.Query("date"); onDate != "" {
		if parsed, err := time.Parse("2006-01-02", onDate); err == nil {
			filter.OnDate = &parsed
		}
	}

	records, err := h.service.List(c.UserContext(), sess, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ActivityResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewActivityResponse(&records[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Summary handles GET /activity/summary.
func (h *ActivityHandler) Summary(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	summary, err := h.service.Summarize(c.UserContext(), sess, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivitySummaryResponse(summary)})
}

// ListForUser handles GET /activity/users/:id.
func (h *ActivityHandler) ListForUser(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	records, err := h.service.ListForUser(c.UserContext(), sess, id, queryInt(c, "limit", 0))
	if err != nil {
		return err
	}
	summary, err := h.service.SummarizeUser(c.UserContext(), sess, id, time.Now())
	if err != nil {
		return err
	}

	items := make([]dto.ActivityResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewActivityResponse(&records[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"activities": items,
		"summary": dto.UserActivitySummaryResponse{
			TodayCount: summary.TodayCount,
			WeekCount:  summary.WeekCount,
			TotalCount: summary.TotalCount,
		},
	}})
}
