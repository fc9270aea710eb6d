package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/infinitetechnologys/crm/internal/api/dto"
	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/repository"
	"github.com/infinitetechnologys/crm/internal/service"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// StaffHandler exposes the admin roster endpoints.
type StaffHandler struct {
	service *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{service: staffService}
}

// List handles GET /staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	filter := repository.StaffFilter{
		Search: queryString(c, "search"),
		Limit:  queryInt(c, "limit", 0),
		Offset: queryInt(c, "offset", 0),
	}
	if role := c.Query("role"); role != "" {
		r := domain.Role(role)
		filter.Role = &r
	}
	if active := c.Query("active"); active != "" {
		val := active == "true" || active == "1"
		filter.Active = &val
	}

	members, err := h.service.List(c.UserContext(), sess, filter)
	if err != nil {
		return err
	}
	items := make([]dto.StaffMemberResponse, 0, len(members))
	for i := range members {
		items = append(items, dto.NewStaffMemberResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /staff/:id.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	member, err := h.service.Get(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffMemberResponse(member)})
}

// Create handles POST /staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	input, err := staffInputFromBody(c)
	if err != nil {
		return err
	}

	account, err := h.service.Create(c.UserContext(), sess, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// Update handles PUT /staff/:id.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	input, err := staffInputFromBody(c)
	if err != nil {
		return err
	}

	account, err := h.service.Update(c.UserContext(), sess, id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// ToggleActive handles POST /staff/:id/toggle-active.
func (h *StaffHandler) ToggleActive(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	account, err := h.service.ToggleActive(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// Delete handles DELETE /staff/:id.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
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

// ResetPassword handles POST /staff/:id/reset-password.
func (h *StaffHandler) ResetPassword(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.service.ResetPassword(c.UserContext(), sess, id, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_reset"}})
}

func staffInputFromBody(c *fiber.Ctx) (service.StaffInput, error) {
	var req dto.StaffRequest
	if err := c.BodyParser(&req); err != nil {
		return service.StaffInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.StaffInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		Role:           req.Role,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Position:       req.Position,
		HireDate:       req.HireDate,
		CommissionRate: req.CommissionRate,
	}, nil
}
