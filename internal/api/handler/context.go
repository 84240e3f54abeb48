package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todo-system/internal/api/middleware"
	"github.com/99minutos/todo-system/internal/core/domain"
)

// currentUser returns the identity stored by middleware.Authenticate. A
// missing identity means the route was registered without the gate, so it
// fails closed with 401.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ContextUser).(*domain.User)
	if !ok || user == nil || user.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	return user, nil
}

// currentToken returns the raw token the request authenticated with.
func currentToken(c echo.Context) string {
	token, _ := c.Get(middleware.ContextToken).(string)
	return token
}
