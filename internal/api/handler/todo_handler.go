package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todo-system/internal/api/metrics"
	"github.com/99minutos/todo-system/internal/core/ports"
)

// TodoHandler serves the owner-scoped todo routes. Every route sits behind
// middleware.Authenticate.
type TodoHandler struct {
	todos ports.TodoService
}

func NewTodoHandler(todos ports.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// Create handles POST /todos.
//
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     AuthToken
// @Param        body  body      createTodoRequest  true  "Todo"
// @Success      200   {object}  todoResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	todo, err := h.todos.Create(c.Request().Context(), user.ID, req.toInput())
	if err != nil {
		return err
	}

	metrics.TodoOperationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// List handles GET /todos.
//
// @Summary      List own todos
// @Tags         todos
// @Produce      json
// @Security     AuthToken
// @Success      200  {object}  todoListEnvelope
// @Failure      401  {object}  errorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	todos, err := h.todos.ListForOwner(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoList(todos))
}

// Get handles GET /todos/:id.
//
// @Summary      Get an own todo
// @Tags         todos
// @Produce      json
// @Security     AuthToken
// @Param        id   path      string  true  "Todo id"
// @Success      200  {object}  todoEnvelope
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /todos/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	todo, err := h.todos.GetForOwner(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todoEnvelope{Todo: toTodoResponse(todo)})
}

// Delete handles DELETE /todos/:id and returns the removed todo.
//
// @Summary      Delete an own todo
// @Tags         todos
// @Produce      json
// @Security     AuthToken
// @Param        id   path      string  true  "Todo id"
// @Success      200  {object}  todoEnvelope
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	todo, err := h.todos.DeleteForOwner(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.TodoOperationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, todoEnvelope{Todo: toTodoResponse(todo)})
}

// Update handles PATCH /todos/:id. Only text and completed are honoured;
// an omitted completed resets the todo to not completed.
//
// @Summary      Update an own todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     AuthToken
// @Param        id    path      string             true  "Todo id"
// @Param        body  body      updateTodoRequest  true  "Fields to change"
// @Success      200   {object}  todoEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /todos/{id} [patch]
func (h *TodoHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	todo, err := h.todos.UpdateForOwner(c.Request().Context(), user.ID, c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}

	metrics.TodoOperationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, todoEnvelope{Todo: toTodoResponse(todo)})
}
