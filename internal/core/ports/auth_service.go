package ports

import (
	"context"

	"github.com/99minutos/todo-system/internal/core/domain"
)

// TokenResolver resolves a bearer token to its owner.
type TokenResolver interface {
	FindByToken(ctx context.Context, token string) (*domain.User, error)
}

// AuthService covers registration, login and token lifecycle.
type AuthService interface {
	TokenResolver

	CreateUser(ctx context.Context, email, password string) (*domain.User, error)
	IssueToken(ctx context.Context, user *domain.User) (string, error)
	RevokeToken(ctx context.Context, user *domain.User, token string) error
	FindByCredentials(ctx context.Context, email, password string) (*domain.User, error)

	// Register creates the user and issues its first token.
	Register(ctx context.Context, email, password string) (*domain.User, string, error)
	// Login verifies credentials and issues a new token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}
