package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/platform/sqlite"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	taskStore store.TaskStore

	// Auth components
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	resolver   *auth.IdentityResolver
	guard      *auth.Guard

	// Service interfaces
	userService service.UserService
	taskService service.TaskService
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		guard:  auth.NewGuard(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.resolver, err = auth.NewIdentityResolver(app.jwtService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity resolver: %w", err)
	}

	app.hasher, err = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	switch cfg.Database.Driver {
	case driverPostgres:
		app.userStore = postgres.NewPostgresUserStore(db, logger)
		app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	case driverSQLite:
		app.userStore = sqlite.NewUserStore(db, logger)
		app.taskStore = sqlite.NewTaskStore(db, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	app.userService, err = service.NewUserService(
		app.userStore,
		db,
		app.hasher,
		app.guard,
		cfg.Database.QueryTimeout,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(
		app.taskStore,
		db,
		app.guard,
		cfg.Database.QueryTimeout,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
