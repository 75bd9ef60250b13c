package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
)

type countingUsers struct {
	UserRepository
	users map[string]*domain.User
	calls int
}

func (c *countingUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	c.calls++
	if u, ok := c.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, ErrNotFound
}

func newCache(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCachedUserRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	mr, client := newCache(t)
	inner := &countingUsers{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Bob", Email: "bob@example.com", PasswordHash: "hash", Role: domain.RoleSupportAgent},
	}}
	repo := NewCachedUserRepository(inner, client, time.Minute, zap.NewNop())

	first, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if first.PasswordHash != "hash" {
		t.Fatalf("uncached read should come from the store")
	}
	second, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("store calls = %d, want 1", inner.calls)
	}
	if second.Role != domain.RoleSupportAgent || second.Name != "Bob" {
		t.Fatalf("cached user = %+v", second)
	}
	if second.PasswordHash != "" {
		t.Fatal("password hash must not be cached")
	}

	mr.FastForward(2 * time.Minute)
	if _, err := repo.GetByID(ctx, "u1"); err != nil {
		t.Fatalf("GetByID() after expiry error = %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("store calls after expiry = %d, want 2", inner.calls)
	}
}

func TestCachedUserRepository_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	mr, client := newCache(t)
	repo := NewCachedUserRepository(&countingUsers{users: map[string]*domain.User{}}, client, time.Minute, zap.NewNop())

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
	if mr.Exists(userCachePrefix + "missing") {
		t.Fatal("missing users must not be cached")
	}
}

func TestCachedUserRepository_RedisDown(t *testing.T) {
	ctx := context.Background()
	mr, client := newCache(t)
	inner := &countingUsers{users: map[string]*domain.User{"u1": {ID: "u1", Role: domain.RoleCustomer}}}
	repo := NewCachedUserRepository(inner, client, time.Minute, zap.NewNop())
	mr.Close()

	user, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID() with redis down error = %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("user = %+v", user)
	}
}
