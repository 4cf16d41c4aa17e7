package main

import (
	"context"
	"log"
	"os"

	"github.com/example/todo-api/modules/activity"
	"github.com/example/todo-api/modules/api"
	"github.com/example/todo-api/modules/cache"
	"github.com/example/todo-api/modules/todo"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

func main() {
	log.Println("=== Todo API - Fiber + mono ===")

	cfg := loadConfig()

	logLevel := mono.LogLevelInfo
	if cfg.ErrorsOnly() {
		logLevel = mono.LogLevelError
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	for _, module := range newModules(cfg, logger) {
		if err := app.Register(module); err != nil {
			log.Fatalf("Failed to register %s module: %v", module.Name(), err)
		}
	}

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// newModules builds the application modules in registration order:
//   - cache: optional Redis connection, only when REDIS_ADDR is set
//   - activity: event consumer for todo lifecycle events
//   - todo: core domain, emits events
//   - api: Fiber HTTP server, depends on todo and activity
func newModules(cfg Config, logger types.Logger) []mono.Module {
	var modules []mono.Module

	var cacheModule *cache.Module
	if cfg.CacheEnabled() {
		cacheModule = cache.NewModule(cfg.Cache, logger.WithModule("cache"))
		modules = append(modules, cacheModule)
	}

	return append(modules,
		activity.NewModule(cfg.ActivityLimit, logger.WithModule("activity")),
		todo.NewModule(cfg.Todo, cacheModule, logger.WithModule("todo")),
		api.NewModule(cfg.API, logger.WithModule("api")),
	)
}

func printStartupInfo(cfg Config) {
	cacheInfo := "disabled"
	if cfg.CacheEnabled() {
		cacheInfo = cfg.Cache.RedisAddr
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("  - Store: %s", cfg.Todo.StoreDriver)
	log.Printf("  - Redis cache: %s", cacheInfo)
	log.Printf("  - CORS origins: %s", cfg.API.AllowedOrigins)
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", cfg.API.Port)
	log.Println("  GET    /api/todos          - List todos")
	log.Println("  POST   /api/todos          - Create a todo")
	log.Println("  GET    /api/todos/:id      - Get a todo")
	log.Println("  PUT    /api/todos/:id      - Update a todo")
	log.Println("  DELETE /api/todos/:id      - Delete a todo")
	log.Println("  GET    /api/activity       - Recent activity")
	log.Println("  GET    /health             - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
