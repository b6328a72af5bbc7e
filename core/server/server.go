package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"team-calendar-api/core/cache"
	"team-calendar-api/core/config"
	"team-calendar-api/core/constants"
	"team-calendar-api/core/database"
	"team-calendar-api/core/logger"
	"team-calendar-api/core/middleware"
	"team-calendar-api/modules/calendar"
	"team-calendar-api/modules/meeting"
	"team-calendar-api/modules/task"
	"team-calendar-api/modules/team"

	"github.com/labstack/echo/v4"
)

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config) error {
	store, err := OpenStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Server:Run:CloseStore", "error", err)
		}
	}()

	c, err := cache.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn("Server:Run:CloseCache", "error", err)
		}
	}()

	e := New(cfg, store, c)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", "addr", addr, "storage", cfg.Storage.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = constants.DefaultTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Shutting down server")
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// OpenStore connects the configured storage driver, running migrations
// first when database.auto_migrate is set.
func OpenStore(cfg *config.Config) (database.Store, error) {
	if cfg.Storage.Driver == constants.StorageDriverMemory {
		mem, err := database.NewMemoryDB()
		if err != nil {
			return database.Store{}, err
		}
		logger.Info("Using in-memory storage")
		return database.Store{Memory: mem}, nil
	}

	if cfg.Database.AutoMigrate {
		if err := database.MigrateUp(cfg.Database.URL()); err != nil {
			return database.Store{}, fmt.Errorf("migrate database: %w", err)
		}
	}
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return database.Store{}, err
	}
	return database.Store{SQL: db}, nil
}

// New builds the echo instance with every module registered.
func New(cfg *config.Config, store database.Store, c cache.Cache) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())

	if cfg.JWT.Secret == "" {
		logger.Warn("jwt.secret is empty, every authenticated request will be rejected")
	}

	directory := team.Init(store, c)
	mw := middleware.NewMiddleware(cfg.JWT.Secret, directory)

	meetings := meeting.Init(e, store, directory, mw)
	tasks := task.Init(store)
	calendar.Init(e, tasks, meetings, mw)

	e.GET("/healthz", healthz(store))
	return e
}

func healthz(store database.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		if store.SQL != nil {
			if err := store.SQL.SQLx().PingContext(c.Request().Context()); err != nil {
				logger.Warn("Server:healthz", "error", err)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
