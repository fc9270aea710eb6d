package domain

import "time"

// ClientStatus enumerates client lifecycle states.
type ClientStatus string

const (
	ClientStatusLead     ClientStatus = "lead"
	ClientStatusProspect ClientStatus = "prospect"
	ClientStatusActive   ClientStatus = "active"
	ClientStatusClosed   ClientStatus = "closed"
)

// ClientType describes what the client is in the market for.
type ClientType string

const (
	ClientTypeBuyer  ClientType = "buyer"
	ClientTypeSeller ClientType = "seller"
	ClientTypeBoth   ClientType = "both"
)

// Client is a prospective buyer or seller owned by exactly one agent.
type Client struct {
	ID                int64
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	Type              ClientType
	Status            ClientStatus
	BudgetMin         float64
	BudgetMax         float64
	PreferredLocation string
	Notes             string
	Source            string
	AgentID           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FullName joins the client's names for display and audit snapshots.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// InteractionType tags a logged touchpoint with a client.
type InteractionType string

const (
	InteractionCall    InteractionType = "call"
	InteractionEmail   InteractionType = "email"
	InteractionMeeting InteractionType = "meeting"
	InteractionShowing InteractionType = "showing"
	InteractionNote    InteractionType = "note"
)

// Interaction is an immutable log entry attached to a client. Interactions
// are removed together with their client.
type Interaction struct {
	ID        int64
	ClientID  int64
	Type      InteractionType
	Subject   string
	Notes     string
	CreatedAt time.Time
}
