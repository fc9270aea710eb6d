package dto

import (
	"time"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// DealRequest payload for create and update.
type DealRequest struct {
	ClientID       int64             `json:"client_id"`
	PropertyID     int64             `json:"property_id"`
	Status         domain.DealStatus `json:"status"`
	OfferPrice     float64           `json:"offer_price"`
	FinalPrice     *float64          `json:"final_price"`
	CommissionRate float64           `json:"commission_rate"`
	ClosingDate    *time.Time        `json:"closing_date"`
	Notes          string            `json:"notes"`
}

// DealResponse view. Commission is derived, never stored.
type DealResponse struct {
	ID             int64             `json:"id"`
	ClientID       int64             `json:"client_id"`
	PropertyID     int64             `json:"property_id"`
	Status         domain.DealStatus `json:"status"`
	OfferPrice     float64           `json:"offer_price"`
	FinalPrice     *float64          `json:"final_price"`
	CommissionRate float64           `json:"commission_rate"`
	Commission     float64           `json:"commission"`
	ClosingDate    *time.Time        `json:"closing_date"`
	Notes          string            `json:"notes"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// DealDetailResponse bundles a deal with its client and property.
type DealDetailResponse struct {
	Deal     DealResponse     `json:"deal"`
	Client   ClientResponse   `json:"client"`
	Property PropertyResponse `json:"property"`
}

// NewDealResponse maps a domain deal, computing the commission figure.
func NewDealResponse(deal *domain.Deal, commission float64) DealResponse {
	return DealResponse{
		ID:             deal.ID,
		ClientID:       deal.ClientID,
		PropertyID:     deal.PropertyID,
		Status:         deal.Status,
		OfferPrice:     deal.OfferPrice,
		FinalPrice:     deal.FinalPrice,
		CommissionRate: deal.CommissionRate,
		Commission:     commission,
		ClosingDate:    deal.ClosingDate,
		Notes:          deal.Notes,
		CreatedAt:      deal.CreatedAt,
		UpdatedAt:      deal.UpdatedAt,
	}
}
