package service

import (
	"context"
	"testing"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func TestListUsersByRole(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	svc := NewUserService(s.repositories().Users)
	customer := s.addUser("Ana", domain.RoleCustomer)
	agent := s.addUser("Bob", domain.RoleSupportAgent)
	s.addUser("Cy", domain.RoleSupportAgent)

	agents, err := svc.ListUsersByRole(ctx, agent.ID, domain.RoleSupportAgent)
	if err != nil {
		t.Fatalf("ListUsersByRole() error = %v", err)
	}
	if len(agents) != 2 {
		t.Fatalf("agents = %d, want 2", len(agents))
	}

	_, err = svc.ListUsersByRole(ctx, customer.ID, domain.RoleSupportAgent)
	wantCode(t, err, apperrors.CodeRoleMismatch)
	_, err = svc.ListUsersByRole(ctx, agent.ID, "ADMIN")
	wantCode(t, err, apperrors.CodeInvalidEnumValue)
}
