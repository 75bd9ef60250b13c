package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
)

const userCachePrefix = "support-desk:user:"

// cachedUser omits the password hash; credential checks read through GetByEmail.
type cachedUser struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type cachedUserRepository struct {
	UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository puts a Redis read-through cache in front of GetByID. Roles are
// immutable so entries only expire by TTL. Redis failures degrade to the wrapped repository.
func NewCachedUserRepository(inner UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) UserRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	return &cachedUserRepository{UserRepository: inner, client: client, ttl: ttl, logger: logger}
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	key := userCachePrefix + id
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if jsonErr := json.Unmarshal(raw, &cu); jsonErr == nil {
			return &domain.User{
				ID:        cu.ID,
				Name:      cu.Name,
				Email:     cu.Email,
				Role:      cu.Role,
				CreatedAt: cu.CreatedAt,
				UpdatedAt: cu.UpdatedAt,
			}, nil
		}
		r.logger.Warn("discarding corrupt user cache entry", zap.String("user_id", id))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("user cache read failed", zap.String("user_id", id), zap.Error(err))
	}

	user, err := r.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("user cache write failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	return user, nil
}
