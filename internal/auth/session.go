package auth

import "github.com/infinitetechnologys/crm/internal/domain"

// Session identifies the acting staff account for one request, plus the
// request metadata that audit records capture. It is passed explicitly to
// every service call; there is no ambient current-user state.
type Session struct {
	Account *domain.StaffAccount
	IP      string
}

// Actor returns the acting account, nil for an unauthenticated session.
func (s *Session) Actor() *domain.StaffAccount {
	if s == nil {
		return nil
	}
	return s.Account
}

// ActorID returns the acting account id, 0 when unauthenticated.
func (s *Session) ActorID() int64 {
	if s == nil || s.Account == nil {
		return 0
	}
	return s.Account.ID
}
