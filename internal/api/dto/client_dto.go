package dto

import (
	"time"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// ClientRequest payload for create and update.
type ClientRequest struct {
	FirstName         string              `json:"first_name"`
	LastName          string              `json:"last_name"`
	Email             string              `json:"email"`
	Phone             string              `json:"phone"`
	ClientType        domain.ClientType   `json:"client_type"`
	Status            domain.ClientStatus `json:"status"`
	BudgetMin         float64             `json:"budget_min"`
	BudgetMax         float64             `json:"budget_max"`
	PreferredLocation string              `json:"preferred_location"`
	Notes             string              `json:"notes"`
	Source            string              `json:"source"`
}

// ClientResponse view.
type ClientResponse struct {
	ID                int64               `json:"id"`
	FirstName         string              `json:"first_name"`
	LastName          string              `json:"last_name"`
	Email             string              `json:"email"`
	Phone             string              `json:"phone"`
	ClientType        domain.ClientType   `json:"client_type"`
	Status            domain.ClientStatus `json:"status"`
	BudgetMin         float64             `json:"budget_min"`
	BudgetMax         float64             `json:"budget_max"`
	PreferredLocation string              `json:"preferred_location"`
	Notes             string              `json:"notes"`
	Source            string              `json:"source"`
	AgentID           int64               `json:"agent_id"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// InteractionRequest payload.
type InteractionRequest struct {
	Type    domain.InteractionType `json:"interaction_type"`
	Subject string                 `json:"subject"`
	Notes   string                 `json:"notes"`
}

// InteractionResponse view.
type InteractionResponse struct {
	ID        int64                  `json:"id"`
	ClientID  int64                  `json:"client_id"`
	Type      domain.InteractionType `json:"interaction_type"`
	Subject   string                 `json:"subject"`
	Notes     string                 `json:"notes"`
	CreatedAt time.Time              `json:"created_at"`
}

// ClientDetailResponse bundles a client with its interaction log and deals.
type ClientDetailResponse struct {
	Client       ClientResponse        `json:"client"`
	Interactions []InteractionResponse `json:"interactions"`
	Deals        []DealResponse        `json:"deals"`
}

// NewClientResponse maps a domain client.
func NewClientResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:                client.ID,
		FirstName:         client.FirstName,
		LastName:          client.LastName,
		Email:             client.Email,
		Phone:             client.Phone,
		ClientType:        client.Type,
		Status:            client.Status,
		BudgetMin:         client.BudgetMin,
		BudgetMax:         client.BudgetMax,
		PreferredLocation: client.PreferredLocation,
		Notes:             client.Notes,
		Source:            client.Source,
		AgentID:           client.AgentID,
		CreatedAt:         client.CreatedAt,
		UpdatedAt:         client.UpdatedAt,
	}
}

// NewInteractionResponse maps a domain interaction.
func NewInteractionResponse(interaction *domain.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:        interaction.ID,
		ClientID:  interaction.ClientID,
		Type:      interaction.Type,
		Subject:   interaction.Subject,
		Notes:     interaction.Notes,
		CreatedAt: interaction.CreatedAt,
	}
}
