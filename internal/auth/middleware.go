package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/infinitetechnologys/crm/internal/repository"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

const sessionKey = "auth_session"

// Middleware validates bearer tokens and loads the acting staff account.
type Middleware struct {
	tokens *TokenManager
	staff  repository.StaffRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, staff repository.StaffRepository) *Middleware {
	return &Middleware{tokens: tokens, staff: staff}
}

// Handle enforces authentication for protected routes and stores a Session
// in request locals.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	account, err := m.staff.GetByID(c.Context(), claims.AccountID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("account not found")
		}
		return apperrors.NewStoreFailure(err)
	}
	if !account.Active {
		return apperrors.NewUnauthorized("account deactivated")
	}

	c.Locals(sessionKey, &Session{Account: account, IP: c.IP()})
	return c.Next()
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (*Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	sess, ok := val.(*Session)
	return sess, ok
}
