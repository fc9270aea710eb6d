package domain

import "time"

// PropertyStatus enumerates listing lifecycle states.
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusPending   PropertyStatus = "pending"
	PropertyStatusSold      PropertyStatus = "sold"
	PropertyStatusRented    PropertyStatus = "rented"
)

// ListingType distinguishes sale listings from rentals.
type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

// Property is a listing owned by exactly one agent.
type Property struct {
	ID           int64
	Title        string
	PropertyType string
	Status       PropertyStatus
	ListingType  ListingType
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
	AgentID      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ShowingStatus enumerates showing outcomes.
type ShowingStatus string

const (
	ShowingStatusScheduled ShowingStatus = "scheduled"
	ShowingStatusCompleted ShowingStatus = "completed"
	ShowingStatusCancelled ShowingStatus = "cancelled"
	ShowingStatusNoShow    ShowingStatus = "no_show"
)

// Showing is a scheduled property visit. Showings are removed together with
// their property.
type Showing struct {
	ID            int64
	PropertyID    int64
	ClientName    string
	ClientPhone   string
	ClientEmail   string
	ScheduledDate time.Time
	Status        ShowingStatus
	Feedback      string
	CreatedAt     time.Time
}
