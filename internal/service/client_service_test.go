package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinitetechnologys/crm/internal/domain"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

func newClientService() (*ClientService, *fakeClientRepo, *fakeActivityRepo, *spyDispatcher) {
	clients := newFakeClientRepo()
	interactions := newFakeInteractionRepo()
	deals := newFakeDealRepo(clients)
	activities := newFakeActivityRepo()
	dispatcher := &spyDispatcher{}
	svc := NewClientService(clients, interactions, deals, NewActivityService(activities), fakeTx{}, dispatcher)
	return svc, clients, activities, dispatcher
}

func TestClientCreateRecordsActivity(t *testing.T) {
	svc, _, activities, dispatcher := newClientService()
	sess := staffSession(1, domain.RoleStaff)

	client, err := svc.Create(context.Background(), sess, ClientInput{
		FirstName: "Jane",
		LastName:  "Miller",
		Type:      domain.ClientTypeBuyer,
		Source:    "referral",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), client.AgentID)
	assert.Equal(t, domain.ClientStatusLead, client.Status)

	require.Len(t, activities.records, 1)
	record := activities.records[0]
	assert.Equal(t, domain.ActionCreated, record.Action)
	assert.Equal(t, domain.EntityClient, record.EntityType)
	assert.Equal(t, "Jane Miller", record.EntityName)
	assert.Equal(t, "Added new client: Jane Miller", record.Details)
	assert.Equal(t, "127.0.0.1", record.IPAddress)
	require.NotNil(t, record.EntityID)
	assert.Equal(t, client.ID, *record.EntityID)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, int64(1), dispatcher.published[0].OwnerID)
}

func TestClientCreateValidation(t *testing.T) {
	svc, _, activities, _ := newClientService()
	sess := staffSession(1, domain.RoleStaff)

	_, err := svc.Create(context.Background(), sess, ClientInput{FirstName: "  ", LastName: "Miller"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = svc.Create(context.Background(), sess, ClientInput{
		FirstName: "Jane", LastName: "Miller", Status: "vip",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	// a denied mutation leaves no trail
	assert.Empty(t, activities.records)
}

func TestClientOwnershipScoping(t *testing.T) {
	svc, _, activities, _ := newClientService()
	owner := staffSession(1, domain.RoleStaff)
	other := staffSession(2, domain.RoleStaff)
	admin := staffSession(3, domain.RoleAdmin)

	client, err := svc.Create(context.Background(), owner, ClientInput{FirstName: "Jane", LastName: "Miller"})
	require.NoError(t, err)
	activities.records = nil

	_, _, _, err = svc.Get(context.Background(), other, client.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = svc.Update(context.Background(), other, client.ID, ClientInput{FirstName: "X", LastName: "Y"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	err = svc.Delete(context.Background(), other, client.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	// denials never write audit rows
	assert.Empty(t, activities.records)

	// admin bypasses ownership
	got, _, _, err := svc.Get(context.Background(), admin, client.ID)
	require.NoError(t, err)
	assert.Equal(t, client.ID, got.ID)
}

func TestClientListScopedToAgent(t *testing.T) {
	svc, _, _, _ := newClientService()
	first := staffSession(1, domain.RoleStaff)
	second := staffSession(2, domain.RoleStaff)
	admin := staffSession(3, domain.RoleAdmin)

	_, err := svc.Create(context.Background(), first, ClientInput{FirstName: "Jane", LastName: "Miller"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), second, ClientInput{FirstName: "Bob", LastName: "Stone"})
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), first, ClientListInput{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Jane", mine[0].FirstName)

	// a staff filter for another agent is ignored
	stillMine, err := svc.List(context.Background(), first, ClientListInput{AgentID: &second.Account.ID})
	require.NoError(t, err)
	require.Len(t, stillMine, 1)
	assert.Equal(t, int64(1), stillMine[0].AgentID)

	all, err := svc.List(context.Background(), admin, ClientListInput{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestClientDeleteAuditsNameSnapshot(t *testing.T) {
	svc, clients, activities, _ := newClientService()
	sess := staffSession(1, domain.RoleStaff)

	client, err := svc.Create(context.Background(), sess, ClientInput{FirstName: "Jane", LastName: "Miller"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), sess, client.ID))
	assert.Empty(t, clients.clients)

	require.Len(t, activities.records, 2)
	record := activities.records[1]
	assert.Equal(t, domain.ActionDeleted, record.Action)
	assert.Equal(t, "Jane Miller", record.EntityName)
	assert.Equal(t, "Deleted client: Jane Miller", record.Details)
}

func TestClientAddInteraction(t *testing.T) {
	svc, _, activities, _ := newClientService()
	sess := staffSession(1, domain.RoleStaff)
	other := staffSession(2, domain.RoleStaff)

	client, err := svc.Create(context.Background(), sess, ClientInput{FirstName: "Jane", LastName: "Miller"})
	require.NoError(t, err)
	activities.records = nil

	interaction, err := svc.AddInteraction(context.Background(), sess, client.ID, InteractionInput{
		Type:    domain.InteractionCall,
		Subject: "Intro call",
	})
	require.NoError(t, err)
	assert.Equal(t, client.ID, interaction.ClientID)

	_, err = svc.AddInteraction(context.Background(), other, client.ID, InteractionInput{Type: domain.InteractionNote})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	// interactions are operational notes, not audited mutations
	assert.Empty(t, activities.records)

	_, interactions, _, err := svc.Get(context.Background(), sess, client.ID)
	require.NoError(t, err)
	assert.Len(t, interactions, 1)
}

func TestClientUnauthenticated(t *testing.T) {
	svc, _, _, _ := newClientService()

	_, err := svc.Create(context.Background(), nil, ClientInput{FirstName: "Jane", LastName: "Miller"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, err = svc.List(context.Background(), nil, ClientListInput{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}
