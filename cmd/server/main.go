// @title                      Todo API
// @version                    1.0
// @description                Multi-tenant todo backend. Every todo route is scoped to the caller resolved from the x-auth header.
// @BasePath                   /
// @securityDefinitions.apikey AuthToken
// @in                         header
// @name                       x-auth
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/todo-system/internal/api"
	"github.com/99minutos/todo-system/internal/api/handler"
	"github.com/99minutos/todo-system/internal/api/metrics"
	"github.com/99minutos/todo-system/internal/core/ports"
	"github.com/99minutos/todo-system/internal/core/service"
	"github.com/99minutos/todo-system/internal/infrastructure/db/mongo"
	"github.com/99minutos/todo-system/internal/infrastructure/db/redis"
	"github.com/99minutos/todo-system/internal/pkg/config"
	"github.com/99minutos/todo-system/internal/pkg/password"
	"github.com/99minutos/todo-system/internal/pkg/token"
	"github.com/99minutos/todo-system/pkg/logger"
)

const (
	serviceName     = "todo-api"
	shutdownTimeout = 30 * time.Second
)

func main() {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	ctx := context.Background()

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	users := mongo.NewUserRepository(db)
	todos := mongo.NewTodoRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, todos); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	var (
		cache       ports.TokenCache
		redisPinger handler.RedisPinger
		redisClient *goredis.Client
	)
	if cfg.Redis.Enabled {
		redisClient, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		cache = redis.NewTokenCache(redisClient, cfg.Auth.TokenCacheTTL)
		redisPinger = redisClient
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token cache enabled")
	} else {
		log.Warn().Msg("redis disabled, every authenticated request hits mongo")
	}

	codec, err := token.NewCodec(cfg.Auth.TokenSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token configuration")
	}

	authService := service.NewAuthService(users, password.NewHasher(cfg.Auth.BcryptCost), codec, cache, log)
	todoService := service.NewTodoService(todos, log)

	e := api.NewRouter(api.Services{
		Auth:      authService,
		Todos:     todoService,
		Readiness: handler.NewHealthDependenciesHandler(mongoClient, redisPinger),
		Metrics:   metrics.Registry,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"app": func(ctx context.Context) error {
			log.Info().Msg("graceful shutdown initiated")
			return shutdown(ctx, log, e.Shutdown, mongoClient.Disconnect, redisClient)
		},
	})

	code := <-wait
	log.Info().Int("code", code).Msg("server exited")
	os.Exit(code)
}

// shutdown stops accepting requests before closing the stores behind them.
func shutdown(ctx context.Context, log zerolog.Logger, stopHTTP, stopMongo func(context.Context) error, rdb *goredis.Client) error {
	var errs []error
	if err := stopHTTP(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := stopMongo(ctx); err != nil {
		errs = append(errs, err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		log.Error().Err(err).Msg("shutdown finished with errors")
	}
	return err
}
