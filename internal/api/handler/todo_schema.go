package handler

import (
	"github.com/99minutos/todo-system/internal/core/domain"
	"github.com/99minutos/todo-system/internal/core/ports"
)

// createTodoRequest is the body of POST /todos. Unknown fields, including
// creatorId and completedAt, are dropped by the decoder.
type createTodoRequest struct {
	Text      string `json:"text"`
	Completed *bool  `json:"completed"`
}

// updateTodoRequest is the body of PATCH /todos/:id.
type updateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

type todoResponse struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completedAt"`
	CreatorID   string `json:"creatorId"`
}

type todoEnvelope struct {
	Todo todoResponse `json:"todo"`
}

type todoListEnvelope struct {
	Todos []todoResponse `json:"todos"`
}

func (r createTodoRequest) toInput() ports.CreateTodoInput {
	return ports.CreateTodoInput{Text: r.Text, Completed: r.Completed}
}

func (r updateTodoRequest) toPatch() ports.TodoPatch {
	return ports.TodoPatch{Text: r.Text, Completed: r.Completed}
}

func toTodoResponse(t *domain.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Text:        t.Text,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		CreatorID:   t.CreatorID,
	}
}

func toTodoList(todos []*domain.Todo) todoListEnvelope {
	out := todoListEnvelope{Todos: make([]todoResponse, 0, len(todos))}
	for _, t := range todos {
		out.Todos = append(out.Todos, toTodoResponse(t))
	}
	return out
}
