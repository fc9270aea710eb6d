package domain

import "time"

// DealStatus enumerates transaction lifecycle states.
type DealStatus string

const (
	DealStatusInitiated     DealStatus = "initiated"
	DealStatusNegotiation   DealStatus = "negotiation"
	DealStatusUnderContract DealStatus = "under_contract"
	DealStatusClosed        DealStatus = "closed"
	DealStatusCancelled     DealStatus = "cancelled"
)

// ActiveDealStatuses are the states counted as in-flight on dashboards.
var ActiveDealStatuses = []DealStatus{
	DealStatusInitiated,
	DealStatusNegotiation,
	DealStatusUnderContract,
}

// Deal links one client to one property. Its effective owner is the
// client's agent.
type Deal struct {
	ID             int64
	ClientID       int64
	PropertyID     int64
	Status         DealStatus
	OfferPrice     float64
	FinalPrice     *float64
	CommissionRate float64
	ClosingDate    *time.Time
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EffectivePrice is the final price when set, otherwise the offer price.
func (d *Deal) EffectivePrice() float64 {
	if d.FinalPrice != nil {
		return *d.FinalPrice
	}
	return d.OfferPrice
}
