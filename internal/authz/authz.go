// Package authz holds the composable authorization predicates every service
// operation runs before touching state. Each predicate returns a typed
// Forbidden error; nothing is mutated until all checks pass.
package authz

import (
	"github.com/infinitetechnologys/crm/internal/domain"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// RequireActor rejects unauthenticated calls.
func RequireActor(actor *domain.StaffAccount) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return nil
}

// RequireAdmin allows only admin accounts.
func RequireAdmin(actor *domain.StaffAccount) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// RequireManager allows manager and admin accounts.
func RequireManager(actor *domain.StaffAccount) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.IsManager() {
		return apperrors.NewForbidden("manager role required")
	}
	return nil
}

// RequireOwner allows the owning agent; admins bypass ownership.
func RequireOwner(actor *domain.StaffAccount, ownerID int64) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if actor.IsAdmin() {
		return nil
	}
	if actor.ID != ownerID {
		return apperrors.NewForbidden("access denied")
	}
	return nil
}
