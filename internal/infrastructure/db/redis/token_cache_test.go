package redis

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/todo-system/internal/core/domain"
)

// newTestClient connects to REDIS_ADDR (default localhost:6379) on DB 15 and
// skips the test when no server answers.
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client, err := Connect(context.Background(), Config{Addr: addr, DB: 15, Timeout: 500 * time.Millisecond})
	if err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestTokenKey(t *testing.T) {
	key := tokenKey("header.payload.signature")

	if !strings.HasPrefix(key, "auth:token:") {
		t.Fatalf("unexpected prefix: %s", key)
	}
	if strings.Contains(key, "payload") {
		t.Error("raw token must not appear in the key")
	}
	if len(key) != len("auth:token:")+64 {
		t.Errorf("expected hex sha256 suffix, got %s", key)
	}
	if key != tokenKey("header.payload.signature") {
		t.Error("key must be stable")
	}
	if key == tokenKey("header.payload.other") {
		t.Error("different tokens must map to different keys")
	}
}

func TestNewTokenCache_DefaultTTL(t *testing.T) {
	c := NewTokenCache(nil, 0)
	if c.ttl != DefaultTokenTTL {
		t.Errorf("expected default ttl %v, got %v", DefaultTokenTTL, c.ttl)
	}
}

func TestTokenCache_RoundTrip(t *testing.T) {
	client := newTestClient(t)
	cache := NewTokenCache(client, time.Minute)
	ctx := context.Background()
	tok := "test-token-" + time.Now().Format(time.RFC3339Nano)
	t.Cleanup(func() { _ = cache.Delete(ctx, tok) })

	if _, ok, err := cache.Get(ctx, tok); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	user := &domain.User{
		ID:           "64b7f0c2a1b2c3d4e5f60718",
		Email:        "a@example.com",
		PasswordHash: "must-not-be-cached",
		Tokens:       []domain.Token{{Scope: domain.ScopeAuth, Value: tok}},
	}
	if err := cache.Set(ctx, tok, user); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := cache.Get(ctx, tok)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.ID != user.ID || got.Email != user.Email {
		t.Errorf("unexpected user: %+v", got)
	}
	if got.PasswordHash != "" || len(got.Tokens) != 0 {
		t.Error("only the public identity may be cached")
	}

	ttl, err := client.TTL(ctx, tokenKey(tok)).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected ttl within a minute, got %v (err=%v)", ttl, err)
	}

	if err := cache.Delete(ctx, tok); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, tok); ok {
		t.Error("deleted token must miss")
	}
}
