package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/todo-system/internal/core/domain"
)

const DefaultTokenTTL = 5 * time.Minute

// TokenCache maps a verified auth token to the identity it resolved to.
// Key format: auth:token:<sha256 of token>
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

type cachedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewTokenCache wraps client. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenCache(client *redis.Client, ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCache{client: client, ttl: ttl}
}

// Get returns the cached identity for token. A miss is (nil, false, nil).
func (c *TokenCache) Get(ctx context.Context, token string) (*domain.User, bool, error) {
	raw, err := c.client.Get(ctx, tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("token cache get: %w", err)
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, false, fmt.Errorf("token cache decode: %w", err)
	}
	return &domain.User{ID: cu.ID, Email: cu.Email}, true, nil
}

// Set stores only the public identity; hashes and token lists stay in Mongo.
func (c *TokenCache) Set(ctx context.Context, token string, user *domain.User) error {
	raw, err := json.Marshal(cachedUser{ID: user.ID, Email: user.Email})
	if err != nil {
		return fmt.Errorf("token cache encode: %w", err)
	}
	if err := c.client.Set(ctx, tokenKey(token), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("token cache set: %w", err)
	}
	return nil
}

func (c *TokenCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("token cache delete: %w", err)
	}
	return nil
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:token:" + hex.EncodeToString(sum[:])
}
