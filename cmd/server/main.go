package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"FinSoft/internal/config"
	"FinSoft/internal/handlers"
	"FinSoft/internal/logger"
	"FinSoft/internal/middleware"
	"FinSoft/internal/repo"
	"FinSoft/internal/service"
)

func main() {
	cfg := config.NewConfig()

	sugar := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() { _ = sugar.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userService := service.NewUserService(repo.NewUserRepository(gormDB), service.Tokens{
		Secret:     cfg.AuthSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	if err := userService.SeedDefaults(ctx); err != nil {
		sugar.Fatalw("failed to seed users", "error", err)
	}

	resourceService := service.NewResourceService(repo.NewDocumentRepository(gormDB), sugar.Named("resources"))
	if err := service.NewSeeder(resourceService, 0).Seed(ctx, cfg.SeedRecords); err != nil {
		sugar.Fatalw("failed to seed demo data", "error", err)
	}

	h := handlers.NewHandler(userService, resourceService, sugar, cfg)

	sugar.Infow("Starting server",
		"addr", cfg.ServerAddr,
		"database", dbKind(cfg.DatabaseDSN),
		"seed", cfg.SeedRecords,
	)

	srv := &http.Server{Addr: cfg.ServerAddr, Handler: h.Router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("server stopped")
}

// dbKind не выводит DSN целиком: в нём может быть пароль.
func dbKind(dsn string) string {
	if dsn == "" {
		return "sqlite:" + repo.DefaultSQLitePath
	}
	if len(dsn) > 8 && dsn[:8] == "postgres" {
		return "postgres"
	}
	return "custom"
}
