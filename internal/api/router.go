package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/todo-system/docs"
	"github.com/99minutos/todo-system/internal/api/handler"
	"github.com/99minutos/todo-system/internal/api/middleware"
	"github.com/99minutos/todo-system/internal/core/ports"
)

// Services are the dependencies the router wires into handlers.
type Services struct {
	Auth  ports.AuthService
	Todos ports.TodoService

	// Readiness backs /health/ready. Nil leaves the route unregistered.
	Readiness *handler.HealthDependenciesHandler
	// Metrics enables request metrics and /metrics when set.
	Metrics *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(s Services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(s.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(s.Log))
	if s.Metrics != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "http",
			Registerer: s.Metrics,
			Skipper:    skipOperationalRoutes,
		}))
	}

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if s.Readiness != nil {
		e.GET("/health/ready", s.Readiness.Readiness)
	}
	if s.Metrics != nil {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: s.Metrics}))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Users ---
	auth := middleware.Authenticate(s.Auth)
	users := handler.NewUserHandler(s.Auth)

	e.POST("/users", users.Register)
	e.POST("/users/login", users.Login)
	e.GET("/users/me", users.Me, auth)
	e.DELETE("/users/logout", users.Logout, auth)

	// --- Todos (owner scoped) ---
	todos := handler.NewTodoHandler(s.Todos)
	tg := e.Group("/todos", auth)

	tg.POST("", todos.Create)
	tg.GET("", todos.List)
	tg.GET("/:id", todos.Get)
	tg.DELETE("/:id", todos.Delete)
	tg.PATCH("/:id", todos.Update)

	return e
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				evt = log.Warn()
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

func skipOperationalRoutes(c echo.Context) bool {
	p := c.Path()
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}
