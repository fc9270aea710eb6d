package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinitetechnologys/crm/internal/domain"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

func newPropertyService() (*PropertyService, *fakePropertyRepo, *fakeShowingRepo, *fakeActivityRepo) {
	clients := newFakeClientRepo()
	properties := newFakePropertyRepo()
	showings := newFakeShowingRepo()
	activities := newFakeActivityRepo()
	svc := NewPropertyService(properties, showings, newFakeDealRepo(clients), NewActivityService(activities), fakeTx{}, &spyDispatcher{})
	return svc, properties, showings, activities
}

func TestPropertyCreateDefaultsAndAudit(t *testing.T) {
	svc, _, _, activities := newPropertyService()
	sess := staffSession(1, domain.RoleStaff)

	property, err := svc.Create(context.Background(), sess, PropertyInput{
		Title: "12 Oak Ave",
		Price: 450000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusAvailable, property.Status)
	assert.Equal(t, domain.ListingTypeSale, property.ListingType)
	assert.Equal(t, int64(1), property.AgentID)

	require.Len(t, activities.records, 1)
	assert.Equal(t, "Added property: 12 Oak Ave - $450000", activities.records[0].Details)
}

func TestPropertyOwnershipScoping(t *testing.T) {
	svc, _, _, activities := newPropertyService()
	owner := staffSession(1, domain.RoleStaff)
	other := staffSession(2, domain.RoleStaff)
	admin := staffSession(3, domain.RoleAdmin)

	property, err := svc.Create(context.Background(), owner, PropertyInput{Title: "12 Oak Ave"})
	require.NoError(t, err)
	activities.records = nil

	_, err = svc.Update(context.Background(), other, property.ID, PropertyInput{Title: "Hacked"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	err = svc.Delete(context.Background(), other, property.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	assert.Empty(t, activities.records)

	_, err = svc.Update(context.Background(), admin, property.ID, PropertyInput{Title: "12 Oak Avenue"})
	require.NoError(t, err)
}

func TestPropertyValidation(t *testing.T) {
	svc, _, _, _ := newPropertyService()
	sess := staffSession(1, domain.RoleStaff)

	_, err := svc.Create(context.Background(), sess, PropertyInput{Title: "  "})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = svc.Create(context.Background(), sess, PropertyInput{Title: "Oak", Price: -1})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = svc.Create(context.Background(), sess, PropertyInput{Title: "Oak", Status: "demolished"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestScheduleShowing(t *testing.T) {
	svc, _, showings, activities := newPropertyService()
	sess := staffSession(1, domain.RoleStaff)
	other := staffSession(2, domain.RoleStaff)

	property, err := svc.Create(context.Background(), sess, PropertyInput{Title: "12 Oak Ave"})
	require.NoError(t, err)
	activities.records = nil

	when := time.Now().Add(48 * time.Hour)
	showing, err := svc.ScheduleShowing(context.Background(), sess, property.ID, ShowingInput{
		ClientName:    "Jane Miller",
		ScheduledDate: when,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ShowingStatusScheduled, showing.Status)

	require.Len(t, activities.records, 1)
	record := activities.records[0]
	assert.Equal(t, domain.ActionScheduled, record.Action)
	assert.Equal(t, domain.EntityShowing, record.EntityType)
	assert.Equal(t, "Scheduled showing for 12 Oak Ave with Jane Miller", record.Details)

	_, err = svc.ScheduleShowing(context.Background(), other, property.ID, ShowingInput{
		ClientName:    "Bob",
		ScheduledDate: when,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	// missing scheduled date is rejected
	_, err = svc.ScheduleShowing(context.Background(), sess, property.ID, ShowingInput{ClientName: "Bob"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	stored, err := showings.GetByID(context.Background(), showing.ID)
	require.NoError(t, err)
	assert.Equal(t, property.ID, stored.PropertyID)
}

func TestUpdateShowingOutcome(t *testing.T) {
	svc, _, _, activities := newPropertyService()
	sess := staffSession(1, domain.RoleStaff)

	property, err := svc.Create(context.Background(), sess, PropertyInput{Title: "12 Oak Ave"})
	require.NoError(t, err)
	showing, err := svc.ScheduleShowing(context.Background(), sess, property.ID, ShowingInput{
		ClientName:    "Jane Miller",
		ScheduledDate: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	activities.records = nil

	updated, err := svc.UpdateShowing(context.Background(), sess, showing.ID, domain.ShowingStatusCompleted, "liked the kitchen")
	require.NoError(t, err)
	assert.Equal(t, domain.ShowingStatusCompleted, updated.Status)
	assert.Equal(t, "liked the kitchen", updated.Feedback)

	require.Len(t, activities.records, 1)
	assert.Equal(t, domain.ActionStatusChange, activities.records[0].Action)
	assert.Equal(t, domain.EntityShowing, activities.records[0].EntityType)

	_, err = svc.UpdateShowing(context.Background(), sess, showing.ID, "ghosted", "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	assert.Len(t, activities.records, 1)
}
