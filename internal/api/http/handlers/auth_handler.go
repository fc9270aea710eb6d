package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/infinitetechnologys/crm/internal/api/dto"
	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/service"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// AuthHandler exposes login, logout and self-service account endpoints.
type AuthHandler struct {
	authService  *service.AuthService
	staffService *service.StaffService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, staffService *service.StaffService) *AuthHandler {
	return &AuthHandler{authService: authService, staffService: staffService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	account, token, exp, err := h.authService.Authenticate(c.UserContext(), req.Username, req.Password, c.IP())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		Account:   dto.NewAccountResponse(account),
	}})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	if err := h.authService.Logout(c.UserContext(), sess); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sess, ok := auth.SessionFromContext(c)
	if !ok || sess.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(sess.Account)})
}

// UpdateProfile handles PUT /auth/me.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	var req dto.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.staffService.UpdateProfile(c.UserContext(), sess, service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.authService.ChangePassword(c.UserContext(), sess, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}
