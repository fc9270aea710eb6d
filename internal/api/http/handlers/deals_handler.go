package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/infinitetechnologys/crm/internal/api/dto"
	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/metrics"
	"github.com/infinitetechnologys/crm/internal/service"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// DealsHandler exposes transaction endpoints.
type DealsHandler struct {
	service *service.DealService
}

// NewDealsHandler constructs handler.
func NewDealsHandler(dealService *service.DealService) *DealsHandler {
	return &DealsHandler{service: dealService}
}

// List handles GET /deals.
func (h *DealsHandler) List(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	input := service.DealListInput{
		AgentID: queryInt64(c, "agent_id"),
		Limit:   queryInt(c, "limit", 0),
		Offset:  queryInt(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		s := domain.DealStatus(status)
		input.Status = &s
	}

	deals, err := h.service.List(c.UserContext(), sess, input)
	if err != nil {
		return err
	}
	items := make([]dto.DealResponse, 0, len(deals))
	for i := range deals {
		items = append(items, dto.NewDealResponse(&deals[i], metrics.CommissionAmount(deals[i])))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /deals/:id.
func (h *DealsHandler) Get(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	deal, client, property, err := h.service.Get(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DealDetailResponse{
		Deal:     dto.NewDealResponse(deal, metrics.CommissionAmount(*deal)),
		Client:   dto.NewClientResponse(client),
		Property: dto.NewPropertyResponse(property),
	}})
}

// Create handles POST /deals.
func (h *DealsHandler) Create(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	input, err := dealInputFromBody(c)
	if err != nil {
		return err
	}

	deal, err := h.service.Create(c.UserContext(), sess, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewDealResponse(deal, metrics.CommissionAmount(*deal))})
}

// Update handles PUT /deals/:id.
func (h *DealsHandler) Update(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	input, err := dealInputFromBody(c)
	if err != nil {
		return err
	}

	deal, err := h.service.Update(c.UserContext(), sess, id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDealResponse(deal, metrics.CommissionAmount(*deal))})
}

// Delete handles DELETE /deals/:id.
func (h *DealsHandler) Delete(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), sess, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func dealInputFromBody(c *fiber.Ctx) (service.DealInput, error) {
	var req dto.DealRequest
	if err := c.BodyParser(&req); err != nil {
		return service.DealInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.DealInput{
		ClientID:       req.ClientID,
		PropertyID:     req.PropertyID,
		Status:         req.Status,
		OfferPrice:     req.OfferPrice,
		FinalPrice:     req.FinalPrice,
		CommissionRate: req.CommissionRate,
		ClosingDate:    req.ClosingDate,
		Notes:          req.Notes,
	}, nil
}
