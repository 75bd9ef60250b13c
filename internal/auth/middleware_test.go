package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

type stubUsers map[string]*domain.User

func (s stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func newTestApp(users stubUsers, tm *TokenManager, guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/me", NewAuthMiddleware(tm, users).Handle, guard, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.ID())
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	customer := testUser()
	users := stubUsers{customer.ID: customer}
	token, _, err := tm.GenerateToken(customer)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	ghost := &domain.User{ID: "00000000-0000-0000-0000-000000000000", Email: "ghost@example.com", Role: domain.RoleCustomer}
	ghostToken, _, _ := tm.GenerateToken(ghost)

	tests := []struct {
		name   string
		header string
		guard  fiber.Handler
		want   int
	}{
		{name: "missing header", guard: RequireAuthenticated(), want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", guard: RequireAuthenticated(), want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", guard: RequireAuthenticated(), want: http.StatusUnauthorized},
		{name: "unknown user", header: "Bearer " + ghostToken, guard: RequireAuthenticated(), want: http.StatusUnauthorized},
		{name: "ok", header: "Bearer " + token, guard: RequireAuthenticated(), want: http.StatusOK},
		{name: "role allowed", header: "Bearer " + token, guard: RequireRole(domain.RoleCustomer), want: http.StatusOK},
		{name: "role rejected", header: "Bearer " + token, guard: RequireRole(domain.RoleSupportAgent), want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(users, tm, tt.guard)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
