package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todo-system/internal/core/domain"
)

type stubResolver struct {
	users map[string]*domain.User
	err   error
}

func (r *stubResolver) FindByToken(_ context.Context, token string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[token]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

func newResolver() *stubResolver {
	return &stubResolver{users: map[string]*domain.User{
		"good-token": {ID: "64b7f0c2a1b2c3d4e5f60718", Email: "a@example.com"},
	}}
}

func runGate(t *testing.T, resolver *stubResolver, token string) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if token != "" {
		req.Header.Set(HeaderAuth, token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authenticate(resolver)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return c, called, err
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Code)
	}
	if he.Message != "Invalid token" {
		t.Fatalf("expected fixed message, got %v", he.Message)
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	c, called, err := runGate(t, newResolver(), "good-token")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}

	user, ok := c.Get(ContextUser).(*domain.User)
	if !ok || user.Email != "a@example.com" {
		t.Fatalf("user not set on context: %v", c.Get(ContextUser))
	}
	if c.Get(ContextToken) != "good-token" {
		t.Fatalf("token not set on context: %v", c.Get(ContextToken))
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	_, called, err := runGate(t, newResolver(), "")
	if called {
		t.Fatalf("next must not be called")
	}
	assertUnauthorized(t, err)
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	c, called, err := runGate(t, newResolver(), "revoked-token")
	if called {
		t.Fatalf("next must not be called")
	}
	assertUnauthorized(t, err)
	if c.Get(ContextUser) != nil {
		t.Fatalf("user must not be set on rejection")
	}
}

func TestAuthenticate_StoreFailurePropagates(t *testing.T) {
	resolver := newResolver()
	resolver.err = errors.New("connection refused")

	_, called, err := runGate(t, resolver, "good-token")
	if called {
		t.Fatalf("next must not be called")
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		t.Fatalf("store failure must not be turned into an HTTP error, got %v", he)
	}
	if err == nil || err.Error() != "connection refused" {
		t.Fatalf("expected store error, got %v", err)
	}
}
