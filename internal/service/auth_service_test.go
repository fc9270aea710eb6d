package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/config"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/repository"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeStaffRepo, *fakeActivityRepo) {
	t.Helper()
	staff := newFakeStaffRepo()
	activities := newFakeActivityRepo()
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}}
	return NewAuthService(cfg, staff, NewActivityService(activities)), staff, activities
}

func seedAccount(t *testing.T, staff *fakeStaffRepo, username, password string, active bool) *domain.StaffAccount {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	account := &domain.StaffAccount{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         domain.RoleStaff,
		FirstName:    "John",
		LastName:     "Smith",
		Active:       active,
	}
	require.NoError(t, staff.Create(context.Background(), account))
	return account
}

func TestAuthenticateSuccess(t *testing.T) {
	svc, staff, activities := newAuthFixture(t)
	seedAccount(t, staff, "jsmith", "secret1", true)

	account, token, exp, err := svc.Authenticate(context.Background(), "jsmith", "secret1", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "jsmith", account.Username)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	require.Len(t, activities.records, 1)
	record := activities.records[0]
	assert.Equal(t, domain.ActionLogin, record.Action)
	assert.Equal(t, domain.EntitySession, record.EntityType)
	assert.Equal(t, "John Smith logged in", record.EntityName)
	assert.Equal(t, "10.0.0.1", record.IPAddress)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
}

func TestAuthenticateGenericFailure(t *testing.T) {
	svc, staff, activities := newAuthFixture(t)
	seedAccount(t, staff, "jsmith", "secret1", true)

	_, _, _, unknownErr := svc.Authenticate(context.Background(), "ghost", "secret1", "")
	_, _, _, wrongErr := svc.Authenticate(context.Background(), "jsmith", "wrong", "")

	// unknown username and wrong password are indistinguishable
	assert.True(t, apperrors.IsCode(unknownErr, apperrors.CodeAuthFailed))
	assert.True(t, apperrors.IsCode(wrongErr, apperrors.CodeAuthFailed))
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Empty(t, activities.records)
}

func TestAuthenticateDeactivated(t *testing.T) {
	svc, staff, _ := newAuthFixture(t)
	seedAccount(t, staff, "jsmith", "secret1", false)

	_, _, _, err := svc.Authenticate(context.Background(), "jsmith", "secret1", "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestLogoutRecordsActivity(t *testing.T) {
	svc, staff, activities := newAuthFixture(t)
	account := seedAccount(t, staff, "jsmith", "secret1", true)

	sess := &auth.Session{Account: account, IP: "10.0.0.1"}
	require.NoError(t, svc.Logout(context.Background(), sess))
	require.Len(t, activities.records, 1)
	assert.Equal(t, domain.ActionLogout, activities.records[0].Action)

	// anonymous logout is a no-op
	require.NoError(t, svc.Logout(context.Background(), nil))
	assert.Len(t, activities.records, 1)
}

func TestChangePassword(t *testing.T) {
	svc, staff, _ := newAuthFixture(t)
	account := seedAccount(t, staff, "jsmith", "secret1", true)
	sess := &auth.Session{Account: account}

	err := svc.ChangePassword(context.Background(), sess, "wrong", "newsecret")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAuthFailed))

	err = svc.ChangePassword(context.Background(), sess, "secret1", "abc")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	require.NoError(t, svc.ChangePassword(context.Background(), sess, "secret1", "newsecret"))
	stored, err := staff.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "newsecret"))
}

func TestEnsureAdminAccount(t *testing.T) {
	svc, staff, _ := newAuthFixture(t)

	admin, err := svc.EnsureAdminAccount(context.Background())
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, "admin", admin.Username)
	assert.True(t, admin.Active)

	// idempotent once an admin exists
	again, err := svc.EnsureAdminAccount(context.Background())
	require.NoError(t, err)
	assert.Nil(t, again)
	accounts, err := staff.List(context.Background(), repository.StaffFilter{})
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}
