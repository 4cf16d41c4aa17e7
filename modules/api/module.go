// Package api is the HTTP driving adapter for the todo service.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/example/todo-api/modules/activity"
	"github.com/example/todo-api/modules/cache"
	"github.com/example/todo-api/modules/todo"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Config holds HTTP server configuration.
type Config struct {
	Port           int
	AllowedOrigins string
	AccessLog      bool

	// CacheEnabled adds a dependency on the cache module and serves its stats.
	CacheEnabled bool
}

// Module exposes the todo REST endpoints. It reaches the todo and activity
// modules only through their ports.
type Module struct {
	cfg      Config
	app      *fiber.App
	todos    todo.TodoPort
	activity activity.ActivityPort
	cache    cache.StatsPort
	logger   types.Logger
}

var _ mono.Module = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new API module.
func NewModule(cfg Config, logger types.Logger) *Module {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.AllowedOrigins == "" {
		cfg.AllowedOrigins = "http://localhost:3000"
	}
	return &Module{cfg: cfg, logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	deps := []string{"todo", "activity"}
	if m.cfg.CacheEnabled {
		deps = append(deps, "cache")
	}
	return deps
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "todo":
		m.todos = todo.NewTodoAdapter(container)
	case "activity":
		m.activity = activity.NewActivityAdapter(container)
	case "cache":
		m.cache = cache.NewStatsAdapter(container)
	}
}

// Start builds the Fiber app and starts listening.
func (m *Module) Start(_ context.Context) error {
	if m.todos == nil {
		return fmt.Errorf("todo adapter dependency not set")
	}
	if m.activity == nil {
		return fmt.Errorf("activity adapter dependency not set")
	}
	if m.cfg.CacheEnabled && m.cache == nil {
		return fmt.Errorf("cache adapter dependency not set")
	}

	m.setupApp()

	addr := fmt.Sprintf(":%d", m.cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			errCh <- err
		}
	}()

	// Catch immediate startup errors such as a port already in use.
	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "addr", addr, "cors", m.cfg.AllowedOrigins)
	return nil
}

// setupApp creates the Fiber app with middleware and routes.
func (m *Module) setupApp() {
	m.app = fiber.New(fiber.Config{
		AppName:               "Todo API",
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})

	m.app.Use(recover.New())
	if m.cfg.AccessLog {
		m.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	m.app.Use(cors.New(cors.Config{
		AllowOrigins: m.cfg.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	m.setupRoutes()
}

// Stop gracefully shuts down the HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.app != nil {
		if err := m.app.ShutdownWithContext(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.Port,
		},
	}
}

// errorHandler handles errors returned by routes and Fiber itself.
func (m *Module) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	errCode := errCodeServerError
	switch {
	case code == fiber.StatusNotFound:
		errCode = errCodeNotFound
	case code >= 400 && code < 500:
		errCode = errCodeInvalidRequest
	default:
		m.logger.Error("HTTP error", "code", code, "message", message, "error", err)
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
