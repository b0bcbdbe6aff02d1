package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/openoffice/openoffice-api/internal/app"
	"github.com/openoffice/openoffice-api/internal/auth"
	"github.com/openoffice/openoffice-api/internal/observability"
	"github.com/openoffice/openoffice-api/internal/permissions"
	"github.com/openoffice/openoffice-api/internal/platform/db"
	"github.com/openoffice/openoffice-api/internal/rbac"
	"github.com/openoffice/openoffice-api/internal/roles"
	"github.com/openoffice/openoffice-api/internal/token"
	"github.com/openoffice/openoffice-api/internal/users"
	"github.com/openoffice/openoffice-api/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	codec, err := token.NewCodec(token.Config{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
		ResetTTL: cfg.ResetTokenTTL,
	})
	if err != nil {
		logger.Error("init token codec", slog.Any("error", err))
		os.Exit(1)
	}

	rbacStore := rbac.NewPGStore(pool)
	gate := rbac.NewGate(codec, rbacStore, logger)

	authRepo := auth.NewRepository(pool)
	resetStore := auth.NewRedisResetStore(redisClient)
	dispatcher := jobs.NewResetDispatcher(asynqClient)
	authService := auth.NewService(logger, authRepo, codec, resetStore, dispatcher, cfg.ResetTokenTTL)
	authHandler := auth.NewHandler(logger, authService)

	rolesHandler := roles.NewHandler(logger, roles.NewService(roles.NewRepository(pool)))
	permissionsHandler := permissions.NewHandler(logger, permissions.NewService(permissions.NewRepository(pool)))
	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(pool)))

	metrics := observability.NewMetrics()

	router, err := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Gate:               gate,
		Permissions:        rbacStore,
		AuthHandler:        authHandler,
		RolesHandler:       rolesHandler,
		PermissionsHandler: permissionsHandler,
		UsersHandler:       usersHandler,
		Metrics:            metrics,
	})
	if err != nil {
		logger.Error("build router", slog.Any("error", err))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
