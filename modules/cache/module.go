package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Config holds cache configuration.
type Config struct {
	RedisAddr     string
	RedisPassword string
	Prefix        string
	TTL           time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr: "localhost:6379",
		Prefix:    "todo:",
		TTL:       30 * time.Second,
	}
}

// Module owns the Redis connection and exposes the Cache to other modules.
type Module struct {
	cfg    Config
	client *redis.Client
	cache  *Cache
	logger types.Logger
}

var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// ServiceStats is the request-reply service returning cache statistics.
const ServiceStats = "stats"

// StatsRequest is the request for cache statistics.
type StatsRequest struct{}

// NewModule creates a new cache module. Zero fields fall back to DefaultConfig.
func NewModule(cfg Config, logger types.Logger) *Module {
	def := DefaultConfig()
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = def.RedisAddr
	}
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	return &Module{cfg: cfg, logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// RegisterServices registers the stats service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceStats, json.Unmarshal, json.Marshal, m.stats,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceStats, err)
	}
	return nil
}

func (m *Module) stats(_ context.Context, _ StatsRequest, _ *mono.Msg) (StatsSnapshot, error) {
	if m.cache == nil {
		return StatsSnapshot{}, fmt.Errorf("cache not initialized")
	}
	return m.cache.Stats(), nil
}

// Start connects to Redis and creates the cache.
func (m *Module) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr:         m.cfg.RedisAddr,
		Password:     m.cfg.RedisPassword,
		PoolSize:     20,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		_ = m.client.Close()
		m.client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	m.cache = New(m.client, m.cfg.Prefix, m.cfg.TTL)
	m.logger.Info("Connected to Redis", "addr", m.cfg.RedisAddr, "prefix", m.cfg.Prefix, "ttl", m.cfg.TTL.String())
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
	}
	m.logger.Info("Cache module stopped")
	return nil
}

// Cache returns the cache instance. It is nil until Start has run.
func (m *Module) Cache() *Cache {
	return m.cache
}

// Health verifies the Redis connection.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.cache == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "cache not initialized",
		}
	}
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}

	stats := m.cache.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr":     m.cfg.RedisAddr,
			"hit_rate": stats.HitRate,
		},
	}
}
