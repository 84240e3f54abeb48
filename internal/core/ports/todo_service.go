package ports

import (
	"context"

	"github.com/99minutos/todo-system/internal/core/domain"
)

// CreateTodoInput carries the fields a client may set on creation.
type CreateTodoInput struct {
	Text      string
	Completed *bool
}

// TodoPatch carries the fields a client may change. Nil means the field
// was not sent.
type TodoPatch struct {
	Text      *string
	Completed *bool
}

// TodoService defines owner-scoped use cases for todos.
type TodoService interface {
	Create(ctx context.Context, ownerID string, input CreateTodoInput) (*domain.Todo, error)
	ListForOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error)
	GetForOwner(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	DeleteForOwner(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	UpdateForOwner(ctx context.Context, ownerID, id string, patch TodoPatch) (*domain.Todo, error)
}
