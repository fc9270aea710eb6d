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

// PropertiesHandler exposes listing CRUD and showing scheduling.
type PropertiesHandler struct {
	service *service.PropertyService
}

// NewPropertiesHandler constructs handler.
func NewPropertiesHandler(propertyService *service.PropertyService) *PropertiesHandler {
	return &PropertiesHandler{service: propertyService}
}

// List handles GET /properties.
func (h *PropertiesHandler) List(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	input := service.PropertyListInput{
		AgentID:      queryInt64(c, "agent_id"),
		PropertyType: queryString(c, "property_type"),
		Search:       queryString(c, "search"),
		Limit:        queryInt(c, "limit", 0),
		Offset:       queryInt(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		s := domain.PropertyStatus(status)
		input.Status = &s
	}
	if listingType := c.Query("listing_type"); listingType != "" {
		l := domain.ListingType(listingType)
		input.ListingType = &l
	}

	properties, err := h.service.List(c.UserContext(), sess, input)
	if err != nil {
		return err
	}
	items := make([]dto.PropertyResponse, 0, len(properties))
	for i := range properties {
		items = append(items, dto.NewPropertyResponse(&properties[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /properties/:id.
func (h *PropertiesHandler) Get(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	property, showings, deals, err := h.service.Get(c.UserContext(), sess, id)
	if err != nil {
		return err
	}

	detail := dto.PropertyDetailResponse{
		Property: dto.NewPropertyResponse(property),
		Showings: make([]dto.ShowingResponse, 0, len(showings)),
		Deals:    make([]dto.DealResponse, 0, len(deals)),
	}
	for i := range showings {
		detail.Showings = append(detail.Showings, dto.NewShowingResponse(&showings[i]))
	}
	for i := range deals {
		detail.Deals = append(detail.Deals, dto.NewDealResponse(&deals[i], metrics.CommissionAmount(deals[i])))
	}
	return c.JSON(fiber.Map{"data": detail})
}

// Create handles POST /properties.
func (h *PropertiesHandler) Create(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	input, err := propertyInputFromBody(c)
	if err != nil {
		return err
	}

	property, err := h.service.Create(c.UserContext(), sess, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewPropertyResponse(property)})
}

// Update handles PUT /properties/:id.
func (h *PropertiesHandler) Update(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	input, err := propertyInputFromBody(c)
	if err != nil {
		return err
	}

	property, err := h.service.Update(c.UserContext(), sess, id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPropertyResponse(property)})
}

// Delete handles DELETE /properties/:id.
func (h *PropertiesHandler) Delete(c *fiber.Ctx) error {
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

// ScheduleShowing handles POST /properties/:id/showings.
func (h *PropertiesHandler) ScheduleShowing(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ShowingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	showing, err := h.service.ScheduleShowing(c.UserContext(), sess, id, service.ShowingInput{
		ClientName:    req.ClientName,
		ClientPhone:   req.ClientPhone,
		ClientEmail:   req.ClientEmail,
		ScheduledDate: req.ScheduledDate,
		Status:        req.Status,
		Feedback:      req.Feedback,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewShowingResponse(showing)})
}

// UpdateShowing handles PUT /showings/:id.
func (h *PropertiesHandler) UpdateShowing(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ShowingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	showing, err := h.service.UpdateShowing(c.UserContext(), sess, id, req.Status, req.Feedback)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewShowingResponse(showing)})
}

func propertyInputFromBody(c *fiber.Ctx) (service.PropertyInput, error) {
	var req dto.PropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return service.PropertyInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.PropertyInput{
		Title:        req.Title,
		PropertyType: req.PropertyType,
		Status:       req.Status,
		ListingType:  req.ListingType,
		Price:        req.Price,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Sqft:         req.Sqft,
		LotSize:      req.LotSize,
		YearBuilt:    req.YearBuilt,
		Description:  req.Description,
		Features:     req.Features,
	}, nil
}
