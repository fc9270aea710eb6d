package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/config"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/repository"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

const minPasswordLength = 6

// AuthService verifies credentials and issues session tokens.
type AuthService struct {
	staff      repository.StaffRepository
	activity   *ActivityService
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, staff repository.StaffRepository, activity *ActivityService) *AuthService {
	return &AuthService{
		staff:      staff,
		activity:   activity,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Authenticate verifies username and password and returns a signed session
// token. Unknown usernames and wrong passwords both surface the same
// generic failure so callers cannot enumerate accounts.
func (s *AuthService) Authenticate(ctx context.Context, username, password, ip string) (*domain.StaffAccount, string, time.Time, error) {
	account, err := s.staff.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewAuthFailure()
		}
		return nil, "", time.Time{}, apperrors.NewStoreFailure(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewAuthFailure()
	}
	if !account.Active {
		return nil, "", time.Time{}, apperrors.NewForbidden("account deactivated")
	}

	token, exp, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	sess := &auth.Session{Account: account, IP: ip}
	if err := s.activity.Record(ctx, sess, domain.ActionLogin, domain.EntitySession, nil,
		fmt.Sprintf("%s logged in", account.FullName()), ""); err != nil {
		return nil, "", time.Time{}, apperrors.NewStoreFailure(err)
	}
	return account, token, exp, nil
}

// Logout records the logout. Tokens are stateless, so there is nothing to
// revoke server side.
func (s *AuthService) Logout(ctx context.Context, sess *auth.Session) error {
	actor := sess.Actor()
	if actor == nil {
		return nil
	}
	if err := s.activity.Record(ctx, sess, domain.ActionLogout, domain.EntitySession, nil,
		fmt.Sprintf("%s logged out", actor.FullName()), ""); err != nil {
		return apperrors.NewStoreFailure(err)
	}
	return nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, sess *auth.Session, currentPassword, newPassword string) error {
	actor := sess.Actor()
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := auth.ComparePassword(actor.PasswordHash, currentPassword); err != nil {
		return apperrors.NewAuthFailure()
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	account := *actor
	account.PasswordHash = hash
	if err := s.staff.Update(ctx, &account); err != nil {
		return apperrors.MapError(err, "staff account")
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// EnsureAdminAccount seeds a default admin when none exists yet.
func (s *AuthService) EnsureAdminAccount(ctx context.Context) (*domain.StaffAccount, error) {
	exists, err := s.staff.AdminExists(ctx)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	if exists {
		return nil, nil
	}

	hash, err := auth.HashPassword("admin123", s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	admin := &domain.StaffAccount{
		Username:       "admin",
		Email:          "admin@estateflow.com",
		PasswordHash:   hash,
		Role:           domain.RoleAdmin,
		FirstName:      "Admin",
		LastName:       "User",
		Position:       "Administrator",
		CommissionRate: 3.0,
		Active:         true,
	}
	if err := s.staff.Create(ctx, admin); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return admin, nil
}
