package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// UserService is admin-only profile management.
type UserService struct {
	users  repository.UserRepository
	authz  *auth.Authorizer
	logger *zap.Logger
}

// UserUpdateInput is a partial profile update.
type UserUpdateInput struct {
	FullName *string
	Role     *string
}

// NewUserService creates the service.
func NewUserService(users repository.UserRepository, authz *auth.Authorizer, logger *zap.Logger) *UserService {
	return &UserService{users: users, authz: authz, logger: orNop(logger)}
}

// GetAllUsers lists profiles, most recently updated first.
func (s *UserService) GetAllUsers(ctx context.Context, actor *domain.Account) ([]domain.Profile, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	profiles, err := s.users.ListProfiles(ctx)
	if err != nil {
		return nil, storeError(s.logger, "list users", "user", err)
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	return profiles, nil
}

// UpdateUser changes a profile's name or role. An empty update is a no-op.
func (s *UserService) UpdateUser(ctx context.Context, actor *domain.Account, id string, input UserUpdateInput) (*domain.Profile, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	var patch repository.ProfilePatch
	if input.FullName != nil {
		name := plainText(*input.FullName)
		if name == "" {
			return nil, apperrors.NewValidationError("full name cannot be empty", nil)
		}
		patch.FullName = &name
	}
	if input.Role != nil && strings.TrimSpace(*input.Role) != "" {
		role, ok := domain.ParseRole(*input.Role)
		if !ok {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
		}
		if id == actor.ID && role != domain.RoleAdmin {
			return nil, apperrors.NewForbidden("admins cannot demote themselves")
		}
		patch.Role = &role
	}

	if patch.Empty() {
		account, err := s.users.GetAccount(ctx, id)
		if err != nil {
			return nil, storeError(s.logger, "get user", "user", err)
		}
		return &account.Profile, nil
	}

	profile, err := s.users.UpdateProfile(ctx, id, patch)
	if err != nil {
		return nil, storeError(s.logger, "update user", "user", err)
	}
	return profile, nil
}

// DeleteUser removes a profile and its user atomically.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.Account, id string) error {
	if err := s.authorize(actor); err != nil {
		return err
	}
	if id == actor.ID {
		return apperrors.NewForbidden("admins cannot delete themselves")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return storeError(s.logger, "delete user", "user", err)
	}
	return nil
}

func (s *UserService) authorize(actor *domain.Account) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !s.authz.Allows(actor, auth.ResourceUser, auth.ActionManage) {
		return apperrors.NewForbidden("only admins can manage users")
	}
	return nil
}
