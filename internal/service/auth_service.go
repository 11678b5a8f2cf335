package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

const invalidCredentialsMessage = "invalid email or password"

// AuthService coordinates registration and session flows.
type AuthService struct {
	users      repository.UserRepository
	sessions   *auth.Sessions
	authz      *auth.Authorizer
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Sessions   *auth.Sessions
	Authorizer *auth.Authorizer
	BcryptCost int
	Logger     *zap.Logger
}

// SignUpInput is a registration request. Role defaults to USER.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Username string
	Role     string
}

// Session is an issued sign-in.
type Session struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.Sessions,
		authz:      deps.Authorizer,
		bcryptCost: deps.BcryptCost,
		logger:     orNop(deps.Logger),
	}
}

// SignUp creates a user and its profile atomically. Only an admin actor may create
// ADMIN profiles; anonymous and USER callers always get USER.
func (s *AuthService) SignUp(ctx context.Context, actor *domain.Account, input SignUpInput) (*domain.Account, error) {
	role := domain.RoleUser
	if strings.TrimSpace(input.Role) != "" {
		parsed, ok := domain.ParseRole(input.Role)
		if !ok {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
		}
		role = parsed
	}
	if role == domain.RoleAdmin && !s.authz.Allows(actor, auth.ResourceUser, auth.ActionManage) {
		return nil, apperrors.NewForbidden("only admins can create admin accounts")
	}
	return s.register(ctx, input, role)
}

// BootstrapAdmin creates an ADMIN account without an acting admin. It is reserved for the
// operator CLI.
func (s *AuthService) BootstrapAdmin(ctx context.Context, input SignUpInput) (*domain.Account, error) {
	return s.register(ctx, input, domain.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, input SignUpInput, role domain.Role) (*domain.Account, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	fullName := plainText(input.FullName)
	username := plainText(input.Username)

	if !validEmail(email) {
		return nil, apperrors.NewValidationError("invalid email", map[string]any{"field": "email"})
	}
	if len(input.Password) < auth.MinPasswordLength {
		return nil, apperrors.NewValidationError("password is too short",
			map[string]any{"field": "password", "min": auth.MinPasswordLength})
	}
	if fullName == "" || username == "" {
		return nil, apperrors.NewValidationError("full name and username are required", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{Email: email, PasswordHash: hash}
	profile := &domain.Profile{FullName: fullName, Username: username, Role: role}
	if err := s.users.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewConflict("email or username already registered", nil)
		}
		s.logger.Error("failed to create account", zap.Error(err))
		return nil, apperrors.NewCreationError("account", err)
	}
	return &domain.Account{Profile: *profile, Email: user.Email}, nil
}

// SignIn verifies credentials and issues a session. Unknown email and wrong password
// produce the same error.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
		}
		s.logger.Error("sign in lookup failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if !auth.IsMismatch(err) {
			s.logger.Warn("stored password hash rejected", zap.String("user_id", user.ID), zap.Error(err))
		}
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}

	account, err := s.users.GetAccount(ctx, user.ID)
	if err != nil {
		return nil, storeError(s.logger, "load account", "account", err)
	}
	token, expiresAt, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{Account: account, Token: token, ExpiresAt: expiresAt}, nil
}

// SignOut revokes token. It always succeeds from the caller's view; revocation failures are
// logged.
func (s *AuthService) SignOut(ctx context.Context, token string) {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		s.logger.Warn("failed to revoke session", zap.Error(err))
	}
}

// CurrentUser returns the account behind token, or nil on any failure.
func (s *AuthService) CurrentUser(ctx context.Context, token string) *domain.Account {
	account, _ := s.sessions.Resolve(ctx, token)
	return account
}

// SessionTTL returns the lifetime of issued sessions.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}
