package service

import (
	"context"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// UserService answers directory queries.
type UserService struct {
	users repository.UserRepository
}

// NewUserService creates the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// ListUsersByRole lists every user with role. Only support agents may browse the directory.
func (s *UserService) ListUsersByRole(ctx context.Context, callerID string, role domain.Role) ([]domain.User, error) {
	caller, err := findUser(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleSupportAgent {
		return nil, apperrors.NewRoleMismatch("only support agents can list users")
	}
	if !role.Valid() {
		return nil, apperrors.NewInvalidEnumValue("role", string(role))
	}
	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}
