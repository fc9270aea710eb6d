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

type dealFixture struct {
	svc        *DealService
	clients    *fakeClientRepo
	properties *fakePropertyRepo
	activities *fakeActivityRepo
	client     *domain.Client
	property   *domain.Property
}

func newDealFixture(t *testing.T, agentID int64) *dealFixture {
	t.Helper()
	clients := newFakeClientRepo()
	properties := newFakePropertyRepo()
	deals := newFakeDealRepo(clients)
	activities := newFakeActivityRepo()
	svc := NewDealService(deals, clients, properties, NewActivityService(activities), fakeTx{}, &spyDispatcher{})

	client := &domain.Client{FirstName: "Jane", LastName: "Miller", AgentID: agentID}
	require.NoError(t, clients.Create(context.Background(), client))
	property := &domain.Property{Title: "12 Oak Ave", Price: 300000, AgentID: agentID}
	require.NoError(t, properties.Create(context.Background(), property))

	return &dealFixture{svc: svc, clients: clients, properties: properties, activities: activities, client: client, property: property}
}

func TestDealCreateDefaultsAndAudit(t *testing.T) {
	fx := newDealFixture(t, 1)
	sess := staffSession(1, domain.RoleStaff)

	deal, err := fx.svc.Create(context.Background(), sess, DealInput{
		ClientID:   fx.client.ID,
		PropertyID: fx.property.ID,
		OfferPrice: 290000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DealStatusInitiated, deal.Status)
	// commission falls back to the acting agent's rate
	assert.Equal(t, 3.0, deal.CommissionRate)

	require.Len(t, fx.activities.records, 1)
	record := fx.activities.records[0]
	assert.Equal(t, domain.EntityDeal, record.EntityType)
	assert.Equal(t, "Created deal for 12 Oak Ave with Jane Miller", record.Details)
}

func TestDealCreateRequiresOwnedReferences(t *testing.T) {
	fx := newDealFixture(t, 1)
	other := staffSession(2, domain.RoleStaff)
	admin := staffSession(3, domain.RoleAdmin)

	_, err := fx.svc.Create(context.Background(), other, DealInput{
		ClientID:   fx.client.ID,
		PropertyID: fx.property.ID,
		OfferPrice: 290000,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	assert.Empty(t, fx.activities.records)

	_, err = fx.svc.Create(context.Background(), admin, DealInput{
		ClientID:   fx.client.ID,
		PropertyID: fx.property.ID,
		OfferPrice: 290000,
	})
	require.NoError(t, err)
}

func TestDealStatusChangeAudited(t *testing.T) {
	fx := newDealFixture(t, 1)
	sess := staffSession(1, domain.RoleStaff)

	deal, err := fx.svc.Create(context.Background(), sess, DealInput{
		ClientID:   fx.client.ID,
		PropertyID: fx.property.ID,
		OfferPrice: 290000,
	})
	require.NoError(t, err)
	fx.activities.records = nil

	updated, err := fx.svc.Update(context.Background(), sess, deal.ID, DealInput{
		ClientID:   fx.client.ID,
		PropertyID: fx.property.ID,
		Status:     domain.DealStatusNegotiation,
		OfferPrice: 295000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DealStatusNegotiation, updated.Status)

	require.Len(t, fx.activities.records, 1)
	record := fx.activities.records[0]
	assert.Equal(t, domain.ActionStatusChange, record.Action)
	assert.Equal(t, "Deal status changed: initiated → negotiation", record.Details)
}

func TestDealCloseStampsClosingDate(t *testing.T) {
	fx := newDealFixture(t, 1)
	sess := staffSession(1, domain.RoleStaff)

	deal, err := fx.svc.Create(context.Background(), sess, DealInput{
		ClientID:   fx.client.ID,
		PropertyID: fx.property.ID,
		OfferPrice: 290000,
	})
	require.NoError(t, err)

	final := 295000.0
	closed, err := fx.svc.Update(context.Background(), sess, deal.ID, DealInput{
		ClientID:   fx.client.ID,
		PropertyID: fx.property.ID,
		Status:     domain.DealStatusClosed,
		OfferPrice: 290000,
		FinalPrice: &final,
	})
	require.NoError(t, err)
	require.NotNil(t, closed.ClosingDate)
	assert.WithinDuration(t, time.Now(), *closed.ClosingDate, time.Minute)
	assert.Equal(t, 295000.0, closed.EffectivePrice())
}

func TestDealGetOwnershipThroughClient(t *testing.T) {
	fx := newDealFixture(t, 1)
	owner := staffSession(1, domain.RoleStaff)
	other := staffSession(2, domain.RoleStaff)

	deal, err := fx.svc.Create(context.Background(), owner, DealInput{
		ClientID:   fx.client.ID,
		PropertyID: fx.property.ID,
		OfferPrice: 290000,
	})
	require.NoError(t, err)

	_, _, _, err = fx.svc.Get(context.Background(), other, deal.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	got, client, property, err := fx.svc.Get(context.Background(), owner, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, deal.ID, got.ID)
	assert.Equal(t, fx.client.ID, client.ID)
	assert.Equal(t, fx.property.ID, property.ID)
}

func TestDealCreateUnknownReferences(t *testing.T) {
	fx := newDealFixture(t, 1)
	sess := staffSession(1, domain.RoleStaff)

	_, err := fx.svc.Create(context.Background(), sess, DealInput{ClientID: 99, PropertyID: fx.property.ID})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = fx.svc.Create(context.Background(), sess, DealInput{ClientID: fx.client.ID, PropertyID: 99})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
