package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/todo-system/internal/core/domain"
	"github.com/99minutos/todo-system/internal/core/ports"
)

type TodoService struct {
	repo ports.TodoRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewTodoService(repo ports.TodoRepository, log zerolog.Logger) *TodoService {
	return &TodoService{repo: repo, log: log, now: time.Now}
}

// Create stores a new todo owned by ownerID. Completed defaults to false.
func (s *TodoService) Create(ctx context.Context, ownerID string, input ports.CreateTodoInput) (*domain.Todo, error) {
	text, err := normalizeText(input.Text)
	if err != nil {
		return nil, err
	}

	completed := input.Completed != nil && *input.Completed
	todo := &domain.Todo{
		Text:        text,
		Completed:   completed,
		CompletedAt: domain.CompletionTime(completed, s.now()),
		CreatorID:   ownerID,
	}

	created, err := s.repo.Create(ctx, todo)
	if err != nil {
		s.log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create todo")
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.log.Info().Str("todo_id", created.ID).Str("owner_id", ownerID).Msg("todo created")
	return created, nil
}

func (s *TodoService) ListForOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	todos, err := s.repo.ListByCreator(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if todos == nil {
		todos = []*domain.Todo{}
	}
	return todos, nil
}

// GetForOwner returns the todo only if ownerID created it. Foreign and
// missing todos are indistinguishable to the caller.
func (s *TodoService) GetForOwner(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}

	todo, err := s.repo.FindOne(ctx, id, ownerID)
	if err != nil {
		return nil, wrapNotFound("get todo", err)
	}
	return todo, nil
}

func (s *TodoService) DeleteForOwner(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}

	todo, err := s.repo.DeleteOne(ctx, id, ownerID)
	if err != nil {
		return nil, wrapNotFound("delete todo", err)
	}

	s.log.Info().Str("todo_id", id).Str("owner_id", ownerID).Msg("todo deleted")
	return todo, nil
}

// UpdateForOwner applies patch to an owned todo. CompletedAt is always
// recomputed from the resulting completed flag, and an omitted completed
// counts as false.
func (s *TodoService) UpdateForOwner(ctx context.Context, ownerID, id string, patch ports.TodoPatch) (*domain.Todo, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}

	var changes domain.TodoChanges
	if patch.Text != nil {
		text, err := normalizeText(*patch.Text)
		if err != nil {
			return nil, err
		}
		changes.Text = &text
	}
	changes.Completed = patch.Completed != nil && *patch.Completed
	changes.CompletedAt = domain.CompletionTime(changes.Completed, s.now())

	todo, err := s.repo.UpdateOne(ctx, id, ownerID, changes)
	if err != nil {
		return nil, wrapNotFound("update todo", err)
	}

	s.log.Info().Str("todo_id", id).Bool("completed", todo.Completed).Msg("todo updated")
	return todo, nil
}

func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewValidationError("text", "is required")
	}
	return text, nil
}

// wrapNotFound passes domain.ErrTodoNotFound through untouched and wraps
// everything else with op.
func wrapNotFound(op string, err error) error {
	if errors.Is(err, domain.ErrTodoNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
