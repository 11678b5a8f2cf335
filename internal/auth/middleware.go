package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller of the current request.
type Principal struct {
	Account *domain.Account
	Claims  *Claims
	Token   string
}

// Middleware resolves the caller once per request.
type Middleware struct {
	sessions   *Sessions
	cookieName string
}

// NewMiddleware constructs middleware.
func NewMiddleware(sessions *Sessions, cookieName string) *Middleware {
	return &Middleware{sessions: sessions, cookieName: cookieName}
}

// Resolve attaches a Principal when the request carries a valid session. Requests without
// one continue anonymously; route guards decide whether that is acceptable.
func (m *Middleware) Resolve(c *fiber.Ctx) error {
	token := TokenFromRequest(c, m.cookieName)
	if token == "" {
		return c.Next()
	}
	account, claims := m.sessions.Resolve(c.UserContext(), token)
	if account != nil {
		c.Locals(principalKey, &Principal{Account: account, Claims: claims, Token: token})
	}
	return c.Next()
}

// TokenFromRequest reads the session cookie, falling back to a bearer header.
func TokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil
}

// AccountFromContext returns the caller's account or nil for anonymous requests.
func AccountFromContext(c *fiber.Ctx) *domain.Account {
	if principal, ok := PrincipalFromContext(c); ok {
		return principal.Account
	}
	return nil
}
