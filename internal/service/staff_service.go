package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/authz"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/events"
	"github.com/infinitetechnologys/crm/internal/persistence"
	"github.com/infinitetechnologys/crm/internal/repository"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// StaffService manages the agency roster. Everything here except profile
// self-service is admin-only.
type StaffService struct {
	staff      repository.StaffRepository
	clients    repository.ClientRepository
	properties repository.PropertyRepository
	deals      repository.DealRepository
	activity   *ActivityService
	tx         persistence.TxManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewStaffService constructs the service.
func NewStaffService(staff repository.StaffRepository, clients repository.ClientRepository, properties repository.PropertyRepository, deals repository.DealRepository, activity *ActivityService, tx persistence.TxManager, dispatcher events.Dispatcher, bcryptCost int) *StaffService {
	return &StaffService{
		staff:      staff,
		clients:    clients,
		properties: properties,
		deals:      deals,
		activity:   activity,
		tx:         tx,
		dispatcher: dispatcher,
		bcryptCost: bcryptCost,
	}
}

// StaffInput carries account attributes for create and update. Password is
// used on create only.
type StaffInput struct {
	Username       string
	Email          string
	Password       string
	Role           domain.Role
	FirstName      string
	LastName       string
	Phone          string
	Position       string
	HireDate       *time.Time
	CommissionRate float64
}

// StaffMember pairs an account with its workload counters for roster views.
type StaffMember struct {
	Account     domain.StaffAccount
	ClientCount int64
	ListedCount int64
	ActiveDeals int64
}

// ProfileInput carries the fields a staff member may edit on their own
// account.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (in StaffInput) validate(creating bool) error {
	if strings.TrimSpace(in.Username) == "" {
		return apperrors.NewValidationError("username required", nil)
	}
	if strings.TrimSpace(in.Email) == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	if in.Role != "" && !domain.ValidRole(in.Role) {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": in.Role})
	}
	if creating && len(in.Password) < minPasswordLength {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	return nil
}

// List returns the roster with per-member workload counters. The acting
// admin's own account is left off the roster; it is managed via the profile
// endpoints instead.
func (s *StaffService) List(ctx context.Context, sess *auth.Session, filter repository.StaffFilter) ([]StaffMember, error) {
	if err := authz.RequireAdmin(sess.Actor()); err != nil {
		return nil, err
	}

	accounts, err := s.staff.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	members := make([]StaffMember, 0, len(accounts))
	for _, account := range accounts {
		if account.ID == sess.ActorID() {
			continue
		}
		member, err := s.withStats(ctx, account)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

// Get fetches one roster member with workload counters.
func (s *StaffService) Get(ctx context.Context, sess *auth.Session, id int64) (*StaffMember, error) {
	if err := authz.RequireAdmin(sess.Actor()); err != nil {
		return nil, err
	}
	account, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, "staff account")
	}
	member, err := s.withStats(ctx, *account)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Create adds a staff account, rejecting duplicate usernames and emails.
func (s *StaffService) Create(ctx context.Context, sess *auth.Session, input StaffInput) (*domain.StaffAccount, error) {
	actor := sess.Actor()
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := input.validate(true); err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(ctx, input.Username, input.Email, nil); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	account := &domain.StaffAccount{
		Username:       strings.TrimSpace(input.Username),
		Email:          strings.TrimSpace(input.Email),
		PasswordHash:   hash,
		Role:           input.Role,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          input.Phone,
		Position:       input.Position,
		HireDate:       input.HireDate,
		CommissionRate: input.CommissionRate,
		Active:         true,
		CreatedBy:      &actor.ID,
	}
	if account.Role == "" {
		account.Role = domain.RoleStaff
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.staff.Create(ctx, account); err != nil {
			return apperrors.NewStoreFailure(err)
		}
		return s.activity.Record(ctx, sess, domain.ActionCreated, domain.EntityStaff,
			idPtr(account.ID), account.FullName(),
			fmt.Sprintf("Added staff member: %s", account.FullName()))
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionCreated, domain.EntityStaff, account.ID, actor.ID)
	return account, nil
}

// Update edits a staff account's profile, role and commission rate.
func (s *StaffService) Update(ctx context.Context, sess *auth.Session, id int64, input StaffInput) (*domain.StaffAccount, error) {
	actor := sess.Actor()
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := input.validate(false); err != nil {
		return nil, err
	}

	account, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, "staff account")
	}
	if err := s.checkDuplicate(ctx, input.Username, input.Email, &id); err != nil {
		return nil, err
	}

	account.Username = strings.TrimSpace(input.Username)
	account.Email = strings.TrimSpace(input.Email)
	if input.Role != "" {
		account.Role = input.Role
	}
	account.FirstName = input.FirstName
	account.LastName = input.LastName
	account.Phone = input.Phone
	account.Position = input.Position
	account.HireDate = input.HireDate
	account.CommissionRate = input.CommissionRate

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.staff.Update(ctx, account); err != nil {
			return apperrors.MapError(err, "staff account")
		}
		return s.activity.Record(ctx, sess, domain.ActionUpdated, domain.EntityStaff,
			idPtr(account.ID), account.FullName(),
			fmt.Sprintf("Updated staff member: %s", account.FullName()))
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionUpdated, domain.EntityStaff, account.ID, actor.ID)
	return account, nil
}

// ToggleActive flips an account between active and deactivated. Admins
// cannot deactivate themselves.
func (s *StaffService) ToggleActive(ctx context.Context, sess *auth.Session, id int64) (*domain.StaffAccount, error) {
	actor := sess.Actor()
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if actor.ID == id {
		return nil, apperrors.NewValidationError("cannot deactivate your own account", nil)
	}

	account, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, "staff account")
	}

	account.Active = !account.Active
	details := fmt.Sprintf("Deactivated staff member: %s", account.FullName())
	if account.Active {
		details = fmt.Sprintf("Activated staff member: %s", account.FullName())
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.staff.Update(ctx, account); err != nil {
			return apperrors.MapError(err, "staff account")
		}
		return s.activity.Record(ctx, sess, domain.ActionStatusChange, domain.EntityStaff,
			idPtr(account.ID), account.FullName(), details)
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionStatusChange, domain.EntityStaff, account.ID, actor.ID)
	return account, nil
}

// Delete removes a staff account. Accounts that still own clients or
// properties cannot be removed; deactivate them instead so their records
// stay attributed.
func (s *StaffService) Delete(ctx context.Context, sess *auth.Session, id int64) error {
	actor := sess.Actor()
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}

	account, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err, "staff account")
	}

	clientCount, err := s.clients.CountByAgent(ctx, id)
	if err != nil {
		return apperrors.NewStoreFailure(err)
	}
	propertyCount, err := s.properties.CountByAgent(ctx, id)
	if err != nil {
		return apperrors.NewStoreFailure(err)
	}
	if clientCount > 0 || propertyCount > 0 {
		return apperrors.NewConflict("staff member still owns records; deactivate the account instead",
			map[string]any{"clients": clientCount, "properties": propertyCount})
	}

	name := account.FullName()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.staff.Delete(ctx, id); err != nil {
			return apperrors.MapError(err, "staff account")
		}
		return s.activity.Record(ctx, sess, domain.ActionDeleted, domain.EntityStaff,
			idPtr(id), name, fmt.Sprintf("Deleted staff member: %s", name))
	})
	if err != nil {
		return err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionDeleted, domain.EntityStaff, id, actor.ID)
	return nil
}

// ResetPassword sets a new password on the target account without requiring
// the old one.
func (s *StaffService) ResetPassword(ctx context.Context, sess *auth.Session, id int64, newPassword string) error {
	if err := authz.RequireAdmin(sess.Actor()); err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}

	account, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err, "staff account")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	account.PasswordHash = hash
	if err := s.staff.Update(ctx, account); err != nil {
		return apperrors.MapError(err, "staff account")
	}
	return nil
}

// UpdateProfile lets any staff member edit their own contact details.
func (s *StaffService) UpdateProfile(ctx context.Context, sess *auth.Session, input ProfileInput) (*domain.StaffAccount, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.NewValidationError("email required", nil)
	}
	if err := s.checkDuplicate(ctx, actor.Username, input.Email, &actor.ID); err != nil {
		return nil, err
	}

	account := *actor
	account.FirstName = input.FirstName
	account.LastName = input.LastName
	account.Email = strings.TrimSpace(input.Email)
	account.Phone = input.Phone
	if err := s.staff.Update(ctx, &account); err != nil {
		return nil, apperrors.MapError(err, "staff account")
	}
	return &account, nil
}

func (s *StaffService) withStats(ctx context.Context, account domain.StaffAccount) (StaffMember, error) {
	clientCount, err := s.clients.CountByAgent(ctx, account.ID)
	if err != nil {
		return StaffMember{}, apperrors.NewStoreFailure(err)
	}
	listedCount, err := s.properties.CountByAgent(ctx, account.ID)
	if err != nil {
		return StaffMember{}, apperrors.NewStoreFailure(err)
	}
	activeDeals, err := s.deals.CountActiveByAgent(ctx, account.ID)
	if err != nil {
		return StaffMember{}, apperrors.NewStoreFailure(err)
	}
	return StaffMember{
		Account:     account,
		ClientCount: clientCount,
		ListedCount: listedCount,
		ActiveDeals: activeDeals,
	}, nil
}

// checkDuplicate rejects username and email values already taken by another
// account. excludeID skips the account being edited.
func (s *StaffService) checkDuplicate(ctx context.Context, username, email string, excludeID *int64) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	existing, err := s.staff.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewStoreFailure(err)
	}
	if existing != nil && (excludeID == nil || existing.ID != *excludeID) {
		return apperrors.NewValidationError("username already taken", map[string]any{"username": username})
	}

	existing, err = s.staff.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewStoreFailure(err)
	}
	if existing != nil && (excludeID == nil || existing.ID != *excludeID) {
		return apperrors.NewValidationError("email already registered", map[string]any{"email": email})
	}
	return nil
}
