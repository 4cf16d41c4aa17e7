package todo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/todo-api/events"
	"github.com/example/todo-api/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store drivers accepted by Config.StoreDriver.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds todo module configuration.
type Config struct {
	// StoreDriver selects the repository: "memory" (default) or "sqlite".
	StoreDriver string

	// DBPath is the SQLite DSN used by the sqlite driver (default ":memory:").
	DBPath string

	// DBDebug turns on gorm SQL logging.
	DBDebug bool
}

// TodoModule provides todo management services (core domain).
type TodoModule struct {
	cfg         Config
	repo        Repository
	db          *gorm.DB
	service     *Service
	cacheModule *cache.Module
	eventBus    mono.EventBus
	logger      types.Logger
}

var _ mono.Module = (*TodoModule)(nil)
var _ mono.ServiceProviderModule = (*TodoModule)(nil)
var _ mono.DependentModule = (*TodoModule)(nil)
var _ mono.EventEmitterModule = (*TodoModule)(nil)
var _ mono.HealthCheckableModule = (*TodoModule)(nil)

// NewModule creates a new TodoModule. cacheModule may be nil to disable caching.
func NewModule(cfg Config, cacheModule *cache.Module, logger types.Logger) *TodoModule {
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = DriverMemory
	}
	if cfg.DBPath == "" {
		cfg.DBPath = ":memory:"
	}
	return &TodoModule{
		cfg:         cfg,
		cacheModule: cacheModule,
		logger:      logger,
	}
}

func (m *TodoModule) Name() string {
	return "todo"
}

// Dependencies returns "cache" only when caching is enabled, so the cache
// module is started first.
func (m *TodoModule) Dependencies() []string {
	if m.cacheModule == nil {
		return nil
	}
	return []string{m.cacheModule.Name()}
}

func (m *TodoModule) SetDependencyServiceContainer(_ string, _ mono.ServiceContainer) {}

func (m *TodoModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *TodoModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TodoCreatedV1.ToBase(),
		events.TodoUpdatedV1.ToBase(),
		events.TodoDeletedV1.ToBase(),
	}
}

func (m *TodoModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceList, json.Unmarshal, json.Marshal, m.listTodos,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceList, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGet, json.Unmarshal, json.Marshal, m.getTodo,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGet, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreate, json.Unmarshal, json.Marshal, m.createTodo,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreate, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdateDone, json.Unmarshal, json.Marshal, m.updateDone,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUpdateDone, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdate, json.Unmarshal, json.Marshal, m.updateTodo,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUpdate, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceDelete, json.Unmarshal, json.Marshal, m.deleteTodo,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceDelete, err)
	}

	m.logger.Info("Registered todo services",
		"services", []string{ServiceList, ServiceGet, ServiceCreate, ServiceUpdateDone, ServiceUpdate, ServiceDelete})
	return nil
}

// Start opens the configured store and builds the service.
func (m *TodoModule) Start(_ context.Context) error {
	repo, err := m.openRepository()
	if err != nil {
		return err
	}
	m.repo = repo

	opts := []ServiceOption{WithPublisher(m)}
	if m.cacheModule != nil {
		c := m.cacheModule.Cache()
		if c == nil {
			return fmt.Errorf("cache module not started")
		}
		opts = append(opts, WithListCache(c))
	}
	if m.eventBus == nil {
		m.logger.Warn("eventBus not set, todo events will not be published")
	}

	m.service = NewService(m.repo, m.logger, opts...)

	m.logger.Info("Todo module started", "driver", m.cfg.StoreDriver, "cache", m.cacheModule != nil)
	return nil
}

func (m *TodoModule) openRepository() (Repository, error) {
	switch m.cfg.StoreDriver {
	case DriverMemory:
		return NewMemoryRepository(), nil
	case DriverSQLite:
		logLevel := logger.Silent
		if m.cfg.DBDebug {
			logLevel = logger.Info
		}

		db, err := gorm.Open(sqlite.Open(m.cfg.DBPath), &gorm.Config{
			Logger: logger.Default.LogMode(logLevel),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		// Every connection to ":memory:" is a separate database.
		sqlDB.SetMaxOpenConns(1)
		m.db = db

		repo := NewGormRepository(db)
		if err := repo.Migrate(); err != nil {
			return nil, err
		}
		m.logger.Info("Connected to SQLite database", "path", m.cfg.DBPath)
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", m.cfg.StoreDriver)
	}
}

// Stop closes the database connection when one is open.
func (m *TodoModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	m.logger.Info("Todo module stopped")
	return nil
}

// Health reports whether the store is reachable.
func (m *TodoModule) Health(ctx context.Context) mono.HealthStatus {
	if m.repo == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "repository not initialized",
		}
	}

	details := map[string]any{"driver": m.cfg.StoreDriver}
	if mem, ok := m.repo.(*MemoryRepository); ok {
		details["todos"] = mem.Len()
	}
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("failed to get sql.DB: %v", err),
			}
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("database ping failed: %v", err),
			}
		}
		details["path"] = m.cfg.DBPath
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

// Service returns the todo service. It is nil until Start has run.
func (m *TodoModule) Service() *Service {
	return m.service
}

// PublishCreated publishes a TodoCreated event.
func (m *TodoModule) PublishCreated(event events.TodoCreatedEvent) error {
	if m.eventBus == nil {
		return nil
	}
	return events.TodoCreatedV1.Publish(m.eventBus, event, nil)
}

// PublishUpdated publishes a TodoUpdated event.
func (m *TodoModule) PublishUpdated(event events.TodoUpdatedEvent) error {
	if m.eventBus == nil {
		return nil
	}
	return events.TodoUpdatedV1.Publish(m.eventBus, event, nil)
}

// PublishDeleted publishes a TodoDeleted event.
func (m *TodoModule) PublishDeleted(event events.TodoDeletedEvent) error {
	if m.eventBus == nil {
		return nil
	}
	return events.TodoDeletedV1.Publish(m.eventBus, event, nil)
}
