package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todo-system/internal/core/domain"
	"github.com/99minutos/todo-system/internal/core/ports"
)

const (
	ownerID = "64b7f0c2a1b2c3d4e5f60718"
	todoID  = "64b7f0c2a1b2c3d4e5f60719"
)

type stubTodoService struct {
	createFn func(ctx context.Context, ownerID string, input ports.CreateTodoInput) (*domain.Todo, error)
	listFn   func(ctx context.Context, ownerID string) ([]*domain.Todo, error)
	getFn    func(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	deleteFn func(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	updateFn func(ctx context.Context, ownerID, id string, patch ports.TodoPatch) (*domain.Todo, error)
}

func (s *stubTodoService) Create(ctx context.Context, ownerID string, input ports.CreateTodoInput) (*domain.Todo, error) {
	return s.createFn(ctx, ownerID, input)
}

func (s *stubTodoService) ListForOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	return s.listFn(ctx, ownerID)
}

func (s *stubTodoService) GetForOwner(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *stubTodoService) DeleteForOwner(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	return s.deleteFn(ctx, ownerID, id)
}

func (s *stubTodoService) UpdateForOwner(ctx context.Context, ownerID, id string, patch ports.TodoPatch) (*domain.Todo, error) {
	return s.updateFn(ctx, ownerID, id, patch)
}

func authedContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newJSONContext(method, target, body)
	withUser(c, &domain.User{ID: ownerID, Email: "a@example.com"}, "tok")
	return c, rec
}

func sampleTodo() *domain.Todo {
	at := int64(1700000000000)
	return &domain.Todo{ID: todoID, Text: "walk the dog", Completed: true, CompletedAt: &at, CreatorID: ownerID}
}

func TestTodoHandler_Create_UsesCallerAsOwner(t *testing.T) {
	stub := &stubTodoService{
		createFn: func(_ context.Context, owner string, input ports.CreateTodoInput) (*domain.Todo, error) {
			if owner != ownerID {
				t.Fatalf("expected owner from context, got %s", owner)
			}
			if input.Text != "walk the dog" || input.Completed == nil || !*input.Completed {
				t.Fatalf("unexpected input: %+v", input)
			}
			return sampleTodo(), nil
		},
	}
	c, rec := authedContext(http.MethodPost, "/todos", `{"text":"walk the dog","completed":true,"_creator":"someone-else","creatorId":"x"}`)

	if err := NewTodoHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp todoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != todoID || resp.CreatorID != ownerID || resp.CompletedAt == nil {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestTodoHandler_Create_InvalidPayload(t *testing.T) {
	stub := &stubTodoService{
		createFn: func(context.Context, string, ports.CreateTodoInput) (*domain.Todo, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := authedContext(http.MethodPost, "/todos", "{")

	assertHTTPError(t, NewTodoHandler(stub).Create(c), http.StatusBadRequest)
}

func TestTodoHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubTodoService{
		listFn: func(context.Context, string) ([]*domain.Todo, error) {
			return nil, nil
		},
	}
	c, rec := authedContext(http.MethodGet, "/todos", "")

	if err := NewTodoHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"todos":[]}` {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestTodoHandler_Get_Envelope(t *testing.T) {
	stub := &stubTodoService{
		getFn: func(_ context.Context, owner, id string) (*domain.Todo, error) {
			if owner != ownerID || id != todoID {
				t.Fatalf("unexpected args: %s %s", owner, id)
			}
			return sampleTodo(), nil
		},
	}
	c, rec := authedContext(http.MethodGet, "/todos/"+todoID, "")
	c.SetParamNames("id")
	c.SetParamValues(todoID)

	if err := NewTodoHandler(stub).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp todoEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Todo.Text != "walk the dog" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestTodoHandler_Get_NotFoundPropagates(t *testing.T) {
	stub := &stubTodoService{
		getFn: func(context.Context, string, string) (*domain.Todo, error) {
			return nil, domain.ErrTodoNotFound
		},
	}
	c, _ := authedContext(http.MethodGet, "/todos/"+todoID, "")
	c.SetParamNames("id")
	c.SetParamValues(todoID)

	if err := NewTodoHandler(stub).Get(c); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTodoHandler_Delete_ReturnsRemoved(t *testing.T) {
	stub := &stubTodoService{
		deleteFn: func(context.Context, string, string) (*domain.Todo, error) {
			return sampleTodo(), nil
		},
	}
	c, rec := authedContext(http.MethodDelete, "/todos/"+todoID, "")
	c.SetParamNames("id")
	c.SetParamValues(todoID)

	if err := NewTodoHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTodoHandler_Update_PassesOnlyKnownFields(t *testing.T) {
	stub := &stubTodoService{
		updateFn: func(_ context.Context, _, _ string, patch ports.TodoPatch) (*domain.Todo, error) {
			if patch.Text == nil || *patch.Text != "new text" {
				t.Fatalf("expected text in patch, got %+v", patch)
			}
			if patch.Completed != nil {
				t.Fatalf("completed was not sent, got %v", *patch.Completed)
			}
			return &domain.Todo{ID: todoID, Text: "new text", CreatorID: ownerID}, nil
		},
	}
	c, rec := authedContext(http.MethodPatch, "/todos/"+todoID, `{"text":"new text","completedAt":5}`)
	c.SetParamNames("id")
	c.SetParamValues(todoID)

	if err := NewTodoHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["todo"]["completed"] != false || resp["todo"]["completedAt"] != nil {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestTodoHandler_RequiresIdentity(t *testing.T) {
	h := NewTodoHandler(&stubTodoService{})
	c, _ := newJSONContext(http.MethodGet, "/todos", "")

	assertHTTPError(t, h.List(c), http.StatusUnauthorized)
}
