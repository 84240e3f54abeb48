package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todo-system/internal/api/metrics"
	"github.com/99minutos/todo-system/internal/core/domain"
	"github.com/99minutos/todo-system/internal/core/ports"
)

const (
	// HeaderAuth carries the bearer token on requests and responses.
	HeaderAuth = "x-auth"

	ContextUser  = "user"
	ContextToken = "token"

	invalidTokenMessage = "Invalid token"
)

// Authenticate resolves the x-auth header to a user and stores both the user
// and the raw token on the context. Missing or unresolvable tokens stop the
// request with 401; store failures are passed on untouched.
func Authenticate(resolver ports.TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(HeaderAuth)
			if token == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, invalidTokenMessage)
			}

			user, err := resolver.FindByToken(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.AuthRejectionsTotal.WithLabelValues("invalid").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, invalidTokenMessage)
				}
				return err
			}

			c.Set(ContextUser, user)
			c.Set(ContextToken, token)

			return next(c)
		}
	}
}
