package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/authz"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/events"
	"github.com/infinitetechnologys/crm/internal/persistence"
	"github.com/infinitetechnologys/crm/internal/repository"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// PropertyService coordinates listing workflows and showing scheduling.
type PropertyService struct {
	properties repository.PropertyRepository
	showings   repository.ShowingRepository
	deals      repository.DealRepository
	activity   *ActivityService
	tx         persistence.TxManager
	dispatcher events.Dispatcher
}

// NewPropertyService constructs the service.
func NewPropertyService(properties repository.PropertyRepository, showings repository.ShowingRepository, deals repository.DealRepository, activity *ActivityService, tx persistence.TxManager, dispatcher events.Dispatcher) *PropertyService {
	return &PropertyService{
		properties: properties,
		showings:   showings,
		deals:      deals,
		activity:   activity,
		tx:         tx,
		dispatcher: dispatcher,
	}
}

// PropertyInput carries listing attributes for create and update.
type PropertyInput struct {
	Title        string
	PropertyType string
	Status       domain.PropertyStatus
	ListingType  domain.ListingType
	Price        float64
	Address      string
	City         string
	State        string
	ZipCode      string
	Bedrooms     int
	Bathrooms    float64
	Sqft         int
	LotSize      float64
	YearBuilt    int
	Description  string
	Features     string
}

// PropertyListInput narrows the listing search. AgentID is honored for admin
// callers only.
type PropertyListInput struct {
	AgentID      *int64
	Status       *domain.PropertyStatus
	PropertyType *string
	ListingType  *domain.ListingType
	Search       *string
	Limit        int
	Offset       int
}

func (in PropertyInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperrors.NewValidationError("title required", nil)
	}
	if in.Price < 0 {
		return apperrors.NewValidationError("price cannot be negative", map[string]any{"price": in.Price})
	}
	if in.Status != "" {
		switch in.Status {
		case domain.PropertyStatusAvailable, domain.PropertyStatusPending, domain.PropertyStatusSold, domain.PropertyStatusRented:
		default:
			return apperrors.NewValidationError("invalid property status", map[string]any{"status": in.Status})
		}
	}
	if in.ListingType != "" {
		switch in.ListingType {
		case domain.ListingTypeSale, domain.ListingTypeRent:
		default:
			return apperrors.NewValidationError("invalid listing type", map[string]any{"listing_type": in.ListingType})
		}
	}
	return nil
}

// List returns properties scoped to the acting agent; admins see everything
// and may narrow to one agent.
func (s *PropertyService) List(ctx context.Context, sess *auth.Session, input PropertyListInput) ([]domain.Property, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}

	filter := repository.PropertyFilter{
		Status:       input.Status,
		PropertyType: input.PropertyType,
		ListingType:  input.ListingType,
		Search:       input.Search,
		Limit:        input.Limit,
		Offset:       input.Offset,
	}
	if actor.IsAdmin() {
		filter.AgentID = input.AgentID
	} else {
		filter.AgentID = &actor.ID
	}

	properties, err := s.properties.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return properties, nil
}

// Get fetches one property with its showings and deals, enforcing ownership.
func (s *PropertyService) Get(ctx context.Context, sess *auth.Session, id int64) (*domain.Property, []domain.Showing, []domain.Deal, error) {
	property, err := s.ownedProperty(ctx, sess, id)
	if err != nil {
		return nil, nil, nil, err
	}
	showings, err := s.showings.ListByProperty(ctx, id)
	if err != nil {
		return nil, nil, nil, apperrors.NewStoreFailure(err)
	}
	deals, err := s.deals.ListByProperty(ctx, id)
	if err != nil {
		return nil, nil, nil, apperrors.NewStoreFailure(err)
	}
	return property, showings, deals, nil
}

// Create adds a listing owned by the acting agent and audits it.
func (s *PropertyService) Create(ctx context.Context, sess *auth.Session, input PropertyInput) (*domain.Property, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	property := &domain.Property{
		Title:        strings.TrimSpace(input.Title),
		PropertyType: input.PropertyType,
		Status:       input.Status,
		ListingType:  input.ListingType,
		Price:        input.Price,
		Address:      input.Address,
		City:         input.City,
		State:        input.State,
		ZipCode:      input.ZipCode,
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		Sqft:         input.Sqft,
		LotSize:      input.LotSize,
		YearBuilt:    input.YearBuilt,
		Description:  input.Description,
		Features:     input.Features,
		AgentID:      actor.ID,
	}
	if property.Status == "" {
		property.Status = domain.PropertyStatusAvailable
	}
	if property.ListingType == "" {
		property.ListingType = domain.ListingTypeSale
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.properties.Create(ctx, property); err != nil {
			return apperrors.NewStoreFailure(err)
		}
		return s.activity.Record(ctx, sess, domain.ActionCreated, domain.EntityProperty,
			idPtr(property.ID), property.Title,
			fmt.Sprintf("Added property: %s - $%.0f", property.Title, property.Price))
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionCreated, domain.EntityProperty, property.ID, property.AgentID)
	return property, nil
}

// Update modifies an owned listing and audits the change.
func (s *PropertyService) Update(ctx context.Context, sess *auth.Session, id int64, input PropertyInput) (*domain.Property, error) {
	property, err := s.ownedProperty(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	property.Title = strings.TrimSpace(input.Title)
	property.PropertyType = input.PropertyType
	property.Status = input.Status
	property.ListingType = input.ListingType
	property.Price = input.Price
	property.Address = input.Address
	property.City = input.City
	property.State = input.State
	property.ZipCode = input.ZipCode
	property.Bedrooms = input.Bedrooms
	property.Bathrooms = input.Bathrooms
	property.Sqft = input.Sqft
	property.LotSize = input.LotSize
	property.YearBuilt = input.YearBuilt
	property.Description = input.Description
	property.Features = input.Features
	if property.Status == "" {
		property.Status = domain.PropertyStatusAvailable
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.properties.Update(ctx, property); err != nil {
			return apperrors.MapError(err, "property")
		}
		return s.activity.Record(ctx, sess, domain.ActionUpdated, domain.EntityProperty,
			idPtr(property.ID), property.Title, fmt.Sprintf("Updated property: %s", property.Title))
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionUpdated, domain.EntityProperty, property.ID, property.AgentID)
	return property, nil
}

// Delete removes an owned listing. Showings go with it; the audit entry
// keeps the title as a snapshot.
func (s *PropertyService) Delete(ctx context.Context, sess *auth.Session, id int64) error {
	property, err := s.ownedProperty(ctx, sess, id)
	if err != nil {
		return err
	}

	title := property.Title
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.properties.Delete(ctx, id); err != nil {
			return apperrors.MapError(err, "property")
		}
		return s.activity.Record(ctx, sess, domain.ActionDeleted, domain.EntityProperty,
			idPtr(id), title, fmt.Sprintf("Deleted property: %s", title))
	})
	if err != nil {
		return err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionDeleted, domain.EntityProperty, id, property.AgentID)
	return nil
}

// ShowingInput carries showing attributes.
type ShowingInput struct {
	ClientName    string
	ClientPhone   string
	ClientEmail   string
	ScheduledDate time.Time
	Status        domain.ShowingStatus
	Feedback      string
}

func (in ShowingInput) validate() error {
	if strings.TrimSpace(in.ClientName) == "" {
		return apperrors.NewValidationError("client name required", nil)
	}
	if in.ScheduledDate.IsZero() {
		return apperrors.NewValidationError("scheduled date required", nil)
	}
	if in.Status != "" {
		switch in.Status {
		case domain.ShowingStatusScheduled, domain.ShowingStatusCompleted, domain.ShowingStatusCancelled, domain.ShowingStatusNoShow:
		default:
			return apperrors.NewValidationError("invalid showing status", map[string]any{"status": in.Status})
		}
	}
	return nil
}

// ScheduleShowing books a visit on an owned property and audits it.
func (s *PropertyService) ScheduleShowing(ctx context.Context, sess *auth.Session, propertyID int64, input ShowingInput) (*domain.Showing, error) {
	property, err := s.ownedProperty(ctx, sess, propertyID)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	showing := &domain.Showing{
		PropertyID:    propertyID,
		ClientName:    strings.TrimSpace(input.ClientName),
		ClientPhone:   input.ClientPhone,
		ClientEmail:   input.ClientEmail,
		ScheduledDate: input.ScheduledDate,
		Status:        input.Status,
		Feedback:      input.Feedback,
	}
	if showing.Status == "" {
		showing.Status = domain.ShowingStatusScheduled
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.showings.Create(ctx, showing); err != nil {
			return apperrors.NewStoreFailure(err)
		}
		return s.activity.Record(ctx, sess, domain.ActionScheduled, domain.EntityShowing,
			idPtr(showing.ID), property.Title,
			fmt.Sprintf("Scheduled showing for %s with %s", property.Title, showing.ClientName))
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionScheduled, domain.EntityShowing, showing.ID, property.AgentID)
	return showing, nil
}

// UpdateShowing changes a showing's outcome on an owned property and audits
// the status change.
func (s *PropertyService) UpdateShowing(ctx context.Context, sess *auth.Session, showingID int64, status domain.ShowingStatus, feedback string) (*domain.Showing, error) {
	showing, err := s.showings.GetByID(ctx, showingID)
	if err != nil {
		return nil, apperrors.MapError(err, "showing")
	}
	property, err := s.ownedProperty(ctx, sess, showing.PropertyID)
	if err != nil {
		return nil, err
	}

	switch status {
	case domain.ShowingStatusScheduled, domain.ShowingStatusCompleted, domain.ShowingStatusCancelled, domain.ShowingStatusNoShow:
	default:
		return nil, apperrors.NewValidationError("invalid showing status", map[string]any{"status": status})
	}

	oldStatus := showing.Status
	showing.Status = status
	showing.Feedback = feedback
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.showings.Update(ctx, showing); err != nil {
			return apperrors.MapError(err, "showing")
		}
		return s.activity.Record(ctx, sess, domain.ActionStatusChange, domain.EntityShowing,
			idPtr(showing.ID), property.Title,
			fmt.Sprintf("Showing for %s marked %s (was %s)", property.Title, status, oldStatus))
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionStatusChange, domain.EntityShowing, showing.ID, property.AgentID)
	return showing, nil
}

func (s *PropertyService) ownedProperty(ctx context.Context, sess *auth.Session, id int64) (*domain.Property, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, "property")
	}
	if err := authz.RequireOwner(actor, property.AgentID); err != nil {
		return nil, err
	}
	return property, nil
}
