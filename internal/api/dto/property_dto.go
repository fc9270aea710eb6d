package dto

import (
	"time"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// PropertyRequest payload for create and update.
type PropertyRequest struct {
	Title        string                `json:"title"`
	PropertyType string                `json:"property_type"`
	Status       domain.PropertyStatus `json:"status"`
	ListingType  domain.ListingType    `json:"listing_type"`
	Price        float64               `json:"price"`
	Address      string                `json:"address"`
	City         string                `json:"city"`
	State        string                `json:"state"`
	ZipCode      string                `json:"zip_code"`
	Bedrooms     int                   `json:"bedrooms"`
	Bathrooms    float64               `json:"bathrooms"`
	Sqft         int                   `json:"sqft"`
	LotSize      float64               `json:"lot_size"`
	YearBuilt    int                   `json:"year_built"`
	Description  string                `json:"description"`
	Features     string                `json:"features"`
}

// PropertyResponse view.
type PropertyResponse struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	PropertyType string                `json:"property_type"`
	Status       domain.PropertyStatus `json:"status"`
	ListingType  domain.ListingType    `json:"listing_type"`
	Price        float64               `json:"price"`
	Address      string                `json:"address"`
	City         string                `json:"city"`
	State        string                `json:"state"`
	ZipCode      string                `json:"zip_code"`
	Bedrooms     int                   `json:"bedrooms"`
	Bathrooms    float64               `json:"bathrooms"`
	Sqft         int                   `json:"sqft"`
	LotSize      float64               `json:"lot_size"`
	YearBuilt    int                   `json:"year_built"`
	Description  string                `json:"description"`
	Features     string                `json:"features"`
	AgentID      int64                 `json:"agent_id"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ShowingRequest payload.
type ShowingRequest struct {
	ClientName    string               `json:"client_name"`
	ClientPhone   string               `json:"client_phone"`
	ClientEmail   string               `json:"client_email"`
	ScheduledDate time.Time            `json:"scheduled_date"`
	Status        domain.ShowingStatus `json:"status"`
	Feedback      string               `json:"feedback"`
}

// ShowingUpdateRequest payload for outcome changes.
type ShowingUpdateRequest struct {
	Status   domain.ShowingStatus `json:"status"`
	Feedback string               `json:"feedback"`
}

// ShowingResponse view.
type ShowingResponse struct {
	ID            int64                `json:"id"`
	PropertyID    int64                `json:"property_id"`
	ClientName    string               `json:"client_name"`
	ClientPhone   string               `json:"client_phone"`
	ClientEmail   string               `json:"client_email"`
	ScheduledDate time.Time            `json:"scheduled_date"`
	Status        domain.ShowingStatus `json:"status"`
	Feedback      string               `json:"feedback"`
	CreatedAt     time.Time            `json:"created_at"`
}

// PropertyDetailResponse bundles a listing with its showings and deals.
type PropertyDetailResponse struct {
	Property PropertyResponse  `json:"property"`
	Showings []ShowingResponse `json:"showings"`
	Deals    []DealResponse    `json:"deals"`
}

// NewPropertyResponse maps a domain property.
func NewPropertyResponse(property *domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:           property.ID,
		Title:        property.Title,
		PropertyType: property.PropertyType,
		Status:       property.Status,
		ListingType:  property.ListingType,
		Price:        property.Price,
		Address:      property.Address,
		City:         property.City,
		State:        property.State,
		ZipCode:      property.ZipCode,
		Bedrooms:     property.Bedrooms,
		Bathrooms:    property.Bathrooms,
		Sqft:         property.Sqft,
		LotSize:      property.LotSize,
		YearBuilt:    property.YearBuilt,
		Description:  property.Description,
		Features:     property.Features,
		AgentID:      property.AgentID,
		CreatedAt:    property.CreatedAt,
		UpdatedAt:    property.UpdatedAt,
	}
}

// NewShowingResponse maps a domain showing.
func NewShowingResponse(showing *domain.Showing) ShowingResponse {
	return ShowingResponse{
		ID:            showing.ID,
		PropertyID:    showing.PropertyID,
		ClientName:    showing.ClientName,
		ClientPhone:   showing.ClientPhone,
		ClientEmail:   showing.ClientEmail,
		ScheduledDate: showing.ScheduledDate,
		Status:        showing.Status,
		Feedback:      showing.Feedback,
		CreatedAt:     showing.CreatedAt,
	}
}
