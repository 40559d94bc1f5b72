package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/go-todo-api/internal/auth"
	"github.com/redmonkez12/go-todo-api/internal/cache"
	"github.com/redmonkez12/go-todo-api/internal/config"
	"github.com/redmonkez12/go-todo-api/internal/database"
	httpServer "github.com/redmonkez12/go-todo-api/internal/http"
	"github.com/redmonkez12/go-todo-api/internal/logging"
	"github.com/redmonkez12/go-todo-api/internal/todo"
	"github.com/redmonkez12/go-todo-api/internal/user"
)

// stores are the persistence backends selected by configuration.
type stores struct {
	users   auth.UserRepository
	todos   todo.Store
	checks  map[string]httpServer.HealthCheck
	closers []func() error
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"token_strategy", cfg.Auth.TokenStrategy,
	)

	ctx := cmd.Context()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	hasher, err := auth.NewPasswordHasher(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}
	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	authService := auth.NewService(st.users, hasher, tokens, logger)
	todoService := todo.NewService(st.todos)

	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:           auth.NewHandler(authService),
		AuthMiddleware: auth.NewMiddleware(authService),
		Todos:          todo.NewHandler(todoService, cfg.Server.TrustProxy),
		HealthChecks:   st.checks,
	}, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func openStores(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*stores, error) {
	st := &stores{checks: map[string]httpServer.HealthCheck{}}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		st.users = user.NewMemoryRepository()
		st.todos = todo.NewMemoryStore()
	default:
		db, err := openPostgres(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, db.Close)
		st.checks["database"] = db.PingContext
		st.users = user.NewRepository(db)
		st.todos = todo.NewRepository(db)
	}

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		st.closers = append(st.closers, client.Close)

		redisCache := cache.NewRedisCache(client)
		st.checks["redis"] = redisCache.Ping
		st.todos = todo.NewCachedStore(st.todos, redisCache, cfg.Redis.TodoTTL, logger)
		logger.Info("todo cache enabled", "ttl", cfg.Redis.TodoTTL.String())
	}

	return st, nil
}

// openPostgres connects and, when configured, applies pending migrations.
func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *logging.Logger) (*bun.DB, error) {
	db, err := database.Open(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db.DB, "up"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("database migrations applied")
	}

	return db, nil
}
