package dto

import (
	"time"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the authenticated account.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   AccountResponse `json:"account"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AccountResponse is the public view of a staff account. The password hash
// never leaves the service layer.
type AccountResponse struct {
	ID             int64       `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Phone          string      `json:"phone"`
	Position       string      `json:"position"`
	HireDate       *time.Time  `json:"hire_date"`
	CommissionRate float64     `json:"commission_rate"`
	Active         bool        `json:"active"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewAccountResponse maps a domain account.
func NewAccountResponse(account *domain.StaffAccount) AccountResponse {
	return AccountResponse{
		ID:             account.ID,
		Username:       account.Username,
		Email:          account.Email,
		Role:           account.Role,
		FirstName:      account.FirstName,
		LastName:       account.LastName,
		Phone:          account.Phone,
		Position:       account.Position,
		HireDate:       account.HireDate,
		CommissionRate: account.CommissionRate,
		Active:         account.Active,
		CreatedAt:      account.CreatedAt,
	}
}
