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

// ClientsHandler exposes client CRUD and the interaction log.
type ClientsHandler struct {
	service *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clientService *service.ClientService) *ClientsHandler {
	return &ClientsHandler{service: clientService}
}

// List handles GET /clients.
func (h *ClientsHandler) List(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	input := service.ClientListInput{
		AgentID: queryInt64(c, "agent_id"),
		Search:  queryString(c, "search"),
		Limit:   queryInt(c, "limit", 0),
		Offset:  queryInt(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		s := domain.ClientStatus(status)
		input.Status = &s
	}
	if clientType := c.Query("client_type"); clientType != "" {
		t := domain.ClientType(clientType)
		input.Type = &t
	}

	clients, err := h.service.List(c.UserContext(), sess, input)
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, dto.NewClientResponse(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /clients/:id.
func (h *ClientsHandler) Get(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	client, interactions, deals, err := h.service.Get(c.UserContext(), sess, id)
	if err != nil {
		return err
	}

	detail := dto.ClientDetailResponse{
		Client:       dto.NewClientResponse(client),
		Interactions: make([]dto.InteractionResponse, 0, len(interactions)),
		Deals:        make([]dto.DealResponse, 0, len(deals)),
	}
	for i := range interactions {
		detail.Interactions = append(detail.Interactions, dto.NewInteractionResponse(&interactions[i]))
	}
	for i := range deals {
		detail.Deals = append(detail.Deals, dto.NewDealResponse(&deals[i], metrics.CommissionAmount(deals[i])))
	}
	return c.JSON(fiber.Map{"data": detail})
}

// Create handles POST /clients.
func (h *ClientsHandler) Create(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	input, err := clientInputFromBody(c)
	if err != nil {
		return err
	}

	client, err := h.service.Create(c.UserContext(), sess, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

// Update handles PUT /clients/:id.
func (h *ClientsHandler) Update(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	input, err := clientInputFromBody(c)
	if err != nil {
		return err
	}

	client, err := h.service.Update(c.UserContext(), sess, id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

// Delete handles DELETE /clients/:id.
func (h *ClientsHandler) Delete(c *fiber.Ctx) error {
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

// AddInteraction handles POST /clients/:id/interactions.
func (h *ClientsHandler) AddInteraction(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.InteractionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	interaction, err := h.service.AddInteraction(c.UserContext(), sess, id, service.InteractionInput{
		Type:    req.Type,
		Subject: req.Subject,
		Notes:   req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewInteractionResponse(interaction)})
}

func clientInputFromBody(c *fiber.Ctx) (service.ClientInput, error) {
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ClientInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.ClientInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		Type:              req.ClientType,
		Status:            req.Status,
		BudgetMin:         req.BudgetMin,
		BudgetMax:         req.BudgetMax,
		PreferredLocation: req.PreferredLocation,
		Notes:             req.Notes,
		Source:            req.Source,
	}, nil
}
