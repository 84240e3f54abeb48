package ports

import (
	"context"

	"github.com/99minutos/todo-system/internal/core/domain"
)

// TodoRepository defines persistence operations for todos. Every lookup is
// filtered by both id and creator, so a todo owned by someone else is
// reported as domain.ErrTodoNotFound.
type TodoRepository interface {
	Create(ctx context.Context, t *domain.Todo) (*domain.Todo, error)
	// ListByCreator returns the creator's todos in insertion order.
	ListByCreator(ctx context.Context, creatorID string) ([]*domain.Todo, error)
	FindOne(ctx context.Context, id, creatorID string) (*domain.Todo, error)
	// DeleteOne atomically removes and returns the todo.
	DeleteOne(ctx context.Context, id, creatorID string) (*domain.Todo, error)
	// UpdateOne atomically applies changes and returns the updated todo.
	UpdateOne(ctx context.Context, id, creatorID string, changes domain.TodoChanges) (*domain.Todo, error)
}
