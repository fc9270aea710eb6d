package service

import (
	"context"
	"fmt"
	"time"

	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/authz"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/events"
	"github.com/infinitetechnologys/crm/internal/persistence"
	"github.com/infinitetechnologys/crm/internal/repository"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// DealService coordinates transaction workflows. A deal has no owner column
// of its own; ownership checks go through the referenced client's agent.
type DealService struct {
	deals      repository.DealRepository
	clients    repository.ClientRepository
	properties repository.PropertyRepository
	activity   *ActivityService
	tx         persistence.TxManager
	dispatcher events.Dispatcher
}

// NewDealService constructs the service.
func NewDealService(deals repository.DealRepository, clients repository.ClientRepository, properties repository.PropertyRepository, activity *ActivityService, tx persistence.TxManager, dispatcher events.Dispatcher) *DealService {
	return &DealService{
		deals:      deals,
		clients:    clients,
		properties: properties,
		activity:   activity,
		tx:         tx,
		dispatcher: dispatcher,
	}
}

// DealInput carries deal attributes for create and update.
type DealInput struct {
	ClientID       int64
	PropertyID     int64
	Status         domain.DealStatus
	OfferPrice     float64
	FinalPrice     *float64
	CommissionRate float64
	ClosingDate    *time.Time
	Notes          string
}

// DealListInput narrows the deal listing.
type DealListInput struct {
	AgentID *int64
	Status  *domain.DealStatus
	Limit   int
	Offset  int
}

func validDealStatus(status domain.DealStatus) bool {
	switch status {
	case domain.DealStatusInitiated, domain.DealStatusNegotiation, domain.DealStatusUnderContract,
		domain.DealStatusClosed, domain.DealStatusCancelled:
		return true
	}
	return false
}

// List returns deals scoped to the acting agent via the client join; admins
// see all deals and may narrow to one agent.
func (s *DealService) List(ctx context.Context, sess *auth.Session, input DealListInput) ([]domain.Deal, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}

	filter := repository.DealFilter{
		Status: input.Status,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if actor.IsAdmin() {
		filter.AgentID = input.AgentID
	} else {
		filter.AgentID = &actor.ID
	}

	deals, err := s.deals.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return deals, nil
}

// Get fetches one deal together with its client and property, enforcing
// ownership through the client.
func (s *DealService) Get(ctx context.Context, sess *auth.Session, id int64) (*domain.Deal, *domain.Client, *domain.Property, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, nil, nil, err
	}
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err, "deal")
	}
	client, err := s.clients.GetByID(ctx, deal.ClientID)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err, "client")
	}
	if err := authz.RequireOwner(actor, client.AgentID); err != nil {
		return nil, nil, nil, err
	}
	property, err := s.properties.GetByID(ctx, deal.PropertyID)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err, "property")
	}
	return deal, client, property, nil
}

// Create opens a deal between an owned client and an owned property. The
// default commission rate is the acting agent's.
func (s *DealService) Create(ctx context.Context, sess *auth.Session, input DealInput) (*domain.Deal, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, apperrors.MapError(err, "client")
	}
	if err := authz.RequireOwner(actor, client.AgentID); err != nil {
		return nil, err
	}
	property, err := s.properties.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, apperrors.MapError(err, "property")
	}
	if err := authz.RequireOwner(actor, property.AgentID); err != nil {
		return nil, err
	}
	if input.Status != "" && !validDealStatus(input.Status) {
		return nil, apperrors.NewValidationError("invalid deal status", map[string]any{"status": input.Status})
	}
	if input.OfferPrice < 0 {
		return nil, apperrors.NewValidationError("offer price cannot be negative", map[string]any{"offer_price": input.OfferPrice})
	}

	deal := &domain.Deal{
		ClientID:       input.ClientID,
		PropertyID:     input.PropertyID,
		Status:         input.Status,
		OfferPrice:     input.OfferPrice,
		FinalPrice:     input.FinalPrice,
		CommissionRate: input.CommissionRate,
		ClosingDate:    input.ClosingDate,
		Notes:          input.Notes,
	}
	if deal.Status == "" {
		deal.Status = domain.DealStatusInitiated
	}
	if deal.CommissionRate == 0 {
		deal.CommissionRate = actor.CommissionRate
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.deals.Create(ctx, deal); err != nil {
			return apperrors.NewStoreFailure(err)
		}
		return s.activity.Record(ctx, sess, domain.ActionCreated, domain.EntityDeal,
			idPtr(deal.ID), property.Title,
			fmt.Sprintf("Created deal for %s with %s", property.Title, client.FullName()))
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionCreated, domain.EntityDeal, deal.ID, client.AgentID)
	return deal, nil
}

// Update modifies a deal owned through its client. A status transition is
// audited as a status change; other edits as a plain update.
func (s *DealService) Update(ctx context.Context, sess *auth.Session, id int64, input DealInput) (*domain.Deal, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}

	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, "deal")
	}
	client, err := s.clients.GetByID(ctx, deal.ClientID)
	if err != nil {
		return nil, apperrors.MapError(err, "client")
	}
	if err := authz.RequireOwner(actor, client.AgentID); err != nil {
		return nil, err
	}
	property, err := s.properties.GetByID(ctx, deal.PropertyID)
	if err != nil {
		return nil, apperrors.MapError(err, "property")
	}
	if input.Status != "" && !validDealStatus(input.Status) {
		return nil, apperrors.NewValidationError("invalid deal status", map[string]any{"status": input.Status})
	}

	oldStatus := deal.Status
	if input.Status != "" {
		deal.Status = input.Status
	}
	deal.OfferPrice = input.OfferPrice
	deal.FinalPrice = input.FinalPrice
	if input.CommissionRate != 0 {
		deal.CommissionRate = input.CommissionRate
	}
	deal.ClosingDate = input.ClosingDate
	deal.Notes = input.Notes

	// Closing a deal stamps the closing date when the caller left it out.
	if deal.Status == domain.DealStatusClosed && deal.ClosingDate == nil {
		now := time.Now()
		deal.ClosingDate = &now
	}

	action := domain.ActionUpdated
	details := fmt.Sprintf("Updated deal for %s", property.Title)
	if deal.Status != oldStatus {
		action = domain.ActionStatusChange
		details = fmt.Sprintf("Deal status changed: %s → %s", oldStatus, deal.Status)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.deals.Update(ctx, deal); err != nil {
			return apperrors.MapError(err, "deal")
		}
		return s.activity.Record(ctx, sess, action, domain.EntityDeal,
			idPtr(deal.ID), property.Title, details)
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, action, domain.EntityDeal, deal.ID, client.AgentID)
	return deal, nil
}

// Delete removes a deal owned through its client.
func (s *DealService) Delete(ctx context.Context, sess *auth.Session, id int64) error {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return err
	}

	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err, "deal")
	}
	client, err := s.clients.GetByID(ctx, deal.ClientID)
	if err != nil {
		return apperrors.MapError(err, "client")
	}
	if err := authz.RequireOwner(actor, client.AgentID); err != nil {
		return err
	}
	property, err := s.properties.GetByID(ctx, deal.PropertyID)
	if err != nil {
		return apperrors.MapError(err, "property")
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.deals.Delete(ctx, id); err != nil {
			return apperrors.MapError(err, "deal")
		}
		return s.activity.Record(ctx, sess, domain.ActionDeleted, domain.EntityDeal,
			idPtr(id), property.Title, fmt.Sprintf("Deleted deal for %s", property.Title))
	})
	if err != nil {
		return err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionDeleted, domain.EntityDeal, id, client.AgentID)
	return nil
}
