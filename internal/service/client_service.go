package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/authz"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/events"
	"github.com/infinitetechnologys/crm/internal/persistence"
	"github.com/infinitetechnologys/crm/internal/repository"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// ClientService coordinates client workflows: ownership-scoped CRUD, the
// interaction log, and the audit entries every mutation leaves behind.
type ClientService struct {
	clients      repository.ClientRepository
	interactions repository.InteractionRepository
	deals        repository.DealRepository
	activity     *ActivityService
	tx           persistence.TxManager
	dispatcher   events.Dispatcher
}

// NewClientService constructs the service.
func NewClientService(clients repository.ClientRepository, interactions repository.InteractionRepository, deals repository.DealRepository, activity *ActivityService, tx persistence.TxManager, dispatcher events.Dispatcher) *ClientService {
	return &ClientService{
		clients:      clients,
		interactions: interactions,
		deals:        deals,
		activity:     activity,
		tx:           tx,
		dispatcher:   dispatcher,
	}
}

// ClientInput carries client attributes for create and update.
type ClientInput struct {
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	Type              domain.ClientType
	Status            domain.ClientStatus
	BudgetMin         float64
	BudgetMax         float64
	PreferredLocation string
	Notes             string
	Source            string
}

// ClientListInput narrows the client listing. AgentID is honored for admin
// callers only; everyone else sees their own clients.
type ClientListInput struct {
	AgentID *int64
	Status  *domain.ClientStatus
	Type    *domain.ClientType
	Search  *string
	Limit   int
	Offset  int
}

func (in ClientInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return apperrors.NewValidationError("first and last name required", nil)
	}
	if in.Type != "" {
		switch in.Type {
		case domain.ClientTypeBuyer, domain.ClientTypeSeller, domain.ClientTypeBoth:
		default:
			return apperrors.NewValidationError("invalid client type", map[string]any{"client_type": in.Type})
		}
	}
	if in.Status != "" {
		switch in.Status {
		case domain.ClientStatusLead, domain.ClientStatusProspect, domain.ClientStatusActive, domain.ClientStatusClosed:
		default:
			return apperrors.NewValidationError("invalid client status", map[string]any{"status": in.Status})
		}
	}
	return nil
}

// List returns clients scoped to the acting agent; admins see all agents
// and may narrow to one.
func (s *ClientService) List(ctx context.Context, sess *auth.Session, input ClientListInput) ([]domain.Client, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}

	filter := repository.ClientFilter{
		Status: input.Status,
		Type:   input.Type,
		Search: input.Search,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if actor.IsAdmin() {
		filter.AgentID = input.AgentID
	} else {
		filter.AgentID = &actor.ID
	}

	clients, err := s.clients.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return clients, nil
}

// Get fetches one client with its interactions and deals, enforcing
// ownership.
func (s *ClientService) Get(ctx context.Context, sess *auth.Session, id int64) (*domain.Client, []domain.Interaction, []domain.Deal, error) {
	client, err := s.ownedClient(ctx, sess, id)
	if err != nil {
		return nil, nil, nil, err
	}
	interactions, err := s.interactions.ListByClient(ctx, id)
	if err != nil {
		return nil, nil, nil, apperrors.NewStoreFailure(err)
	}
	deals, err := s.deals.ListByClient(ctx, id)
	if err != nil {
		return nil, nil, nil, apperrors.NewStoreFailure(err)
	}
	return client, interactions, deals, nil
}

// Create adds a client owned by the acting agent and audits it in the same
// transaction.
func (s *ClientService) Create(ctx context.Context, sess *auth.Session, input ClientInput) (*domain.Client, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	client := &domain.Client{
		FirstName:         strings.TrimSpace(input.FirstName),
		LastName:          strings.TrimSpace(input.LastName),
		Email:             input.Email,
		Phone:             input.Phone,
		Type:              input.Type,
		Status:            input.Status,
		BudgetMin:         input.BudgetMin,
		BudgetMax:         input.BudgetMax,
		PreferredLocation: input.PreferredLocation,
		Notes:             input.Notes,
		Source:            input.Source,
		AgentID:           actor.ID,
	}
	if client.Status == "" {
		client.Status = domain.ClientStatusLead
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.clients.Create(ctx, client); err != nil {
			return apperrors.NewStoreFailure(err)
		}
		return s.activity.Record(ctx, sess, domain.ActionCreated, domain.EntityClient,
			idPtr(client.ID), client.FullName(), fmt.Sprintf("Added new client: %s", client.FullName()))
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionCreated, domain.EntityClient, client.ID, client.AgentID)
	return client, nil
}

// Update modifies an owned client and audits the change.
func (s *ClientService) Update(ctx context.Context, sess *auth.Session, id int64, input ClientInput) (*domain.Client, error) {
	client, err := s.ownedClient(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	client.FirstName = strings.TrimSpace(input.FirstName)
	client.LastName = strings.TrimSpace(input.LastName)
	client.Email = input.Email
	client.Phone = input.Phone
	client.Type = input.Type
	client.Status = input.Status
	client.BudgetMin = input.BudgetMin
	client.BudgetMax = input.BudgetMax
	client.PreferredLocation = input.PreferredLocation
	client.Notes = input.Notes
	client.Source = input.Source
	if client.Status == "" {
		client.Status = domain.ClientStatusLead
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.clients.Update(ctx, client); err != nil {
			return apperrors.MapError(err, "client")
		}
		return s.activity.Record(ctx, sess, domain.ActionUpdated, domain.EntityClient,
			idPtr(client.ID), client.FullName(), fmt.Sprintf("Updated client: %s", client.FullName()))
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionUpdated, domain.EntityClient, client.ID, client.AgentID)
	return client, nil
}

// Delete removes an owned client. Its interactions go with it; the audit
// entry keeps the client's name as a snapshot.
func (s *ClientService) Delete(ctx context.Context, sess *auth.Session, id int64) error {
	client, err := s.ownedClient(ctx, sess, id)
	if err != nil {
		return err
	}

	name := client.FullName()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.clients.Delete(ctx, id); err != nil {
			return apperrors.MapError(err, "client")
		}
		return s.activity.Record(ctx, sess, domain.ActionDeleted, domain.EntityClient,
			idPtr(id), name, fmt.Sprintf("Deleted client: %s", name))
	})
	if err != nil {
		return err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionDeleted, domain.EntityClient, id, client.AgentID)
	return nil
}

// InteractionInput carries one interaction log entry.
type InteractionInput struct {
	Type    domain.InteractionType
	Subject string
	Notes   string
}

// AddInteraction appends an immutable interaction entry to an owned client.
func (s *ClientService) AddInteraction(ctx context.Context, sess *auth.Session, clientID int64, input InteractionInput) (*domain.Interaction, error) {
	if _, err := s.ownedClient(ctx, sess, clientID); err != nil {
		return nil, err
	}

	interaction := &domain.Interaction{
		ClientID: clientID,
		Type:     input.Type,
		Subject:  input.Subject,
		Notes:    input.Notes,
	}
	if err := s.interactions.Create(ctx, interaction); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return interaction, nil
}

// ownedClient loads the client and enforces the ownership check before any
// further work.
func (s *ClientService) ownedClient(ctx context.Context, sess *auth.Session, id int64) (*domain.Client, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, "client")
	}
	if err := authz.RequireOwner(actor, client.AgentID); err != nil {
		return nil, err
	}
	return client, nil
}
