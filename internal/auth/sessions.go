package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// AccountLoader loads the joined user/profile view for a session subject.
type AccountLoader interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
}

// Sessions issues, resolves and revokes session tokens.
type Sessions struct {
	tokens   *TokenManager
	revoked  RevocationStore
	accounts AccountLoader
	logger   *zap.Logger
}

// NewSessions wires the session collaborators. A nil store disables revocation.
func NewSessions(tokens *TokenManager, revoked RevocationStore, accounts AccountLoader, logger *zap.Logger) *Sessions {
	if revoked == nil {
		revoked = NoopRevocationStore{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sessions{tokens: tokens, revoked: revoked, accounts: accounts, logger: logger}
}

// TTL returns the lifetime of issued sessions.
func (s *Sessions) TTL() time.Duration {
	return s.tokens.TTL()
}

// Issue signs a new session token for userID.
func (s *Sessions) Issue(userID string) (string, time.Time, error) {
	return s.tokens.GenerateToken(userID)
}

// Resolve returns the account behind token, or nil when the token is missing, invalid,
// expired, revoked or points at a deleted account. Causes are not distinguished.
func (s *Sessions) Resolve(ctx context.Context, token string) (*domain.Account, *Claims) {
	if token == "" {
		return nil, nil
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, nil
	}
	if claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("revocation lookup failed; rejecting session", zap.Error(err))
			return nil, nil
		}
		if revoked {
			return nil, nil
		}
	}
	account, err := s.accounts.GetAccount(ctx, claims.UserID())
	if err != nil {
		return nil, nil
	}
	return account, claims
}

// Revoke invalidates token for the rest of its lifetime. Unparseable tokens are ignored.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil || claims.ID == "" {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.Remaining(time.Now()))
}
