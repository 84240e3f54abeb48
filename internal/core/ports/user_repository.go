package ports

import (
	"context"

	"github.com/99minutos/todo-system/internal/core/domain"
)

// UserRepository persists users and their active token lists.
type UserRepository interface {
	// Create inserts user and returns it with its generated ID.
	// A taken email yields domain.ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByToken returns the user with id userID whose token list holds an
	// entry matching scope and token exactly, or domain.ErrUserNotFound.
	FindByToken(ctx context.Context, userID, scope, token string) (*domain.User, error)
	// PushToken appends t to the user's token list.
	PushToken(ctx context.Context, userID string, t domain.Token) error
	// PullToken removes every entry whose value equals token. Missing entries
	// are not an error.
	PullToken(ctx context.Context, userID, token string) error
}

// TokenCache remembers which user a verified token resolved to.
type TokenCache interface {
	Get(ctx context.Context, token string) (*domain.User, bool, error)
	Set(ctx context.Context, token string, user *domain.User) error
	Delete(ctx context.Context, token string) error
}
