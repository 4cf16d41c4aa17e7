package main

import (
	"testing"
	"time"

	"github.com/example/todo-api/modules/todo"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_PORT", "CORS_ALLOWED_ORIGINS", "STORE_DRIVER", "DB_PATH", "DB_DEBUG",
		"REDIS_ADDR", "REDIS_PASSWORD", "CACHE_PREFIX", "CACHE_TTL",
		"ACTIVITY_LIMIT", "LOG_LEVEL", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := loadConfig()

	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "http://localhost:3000", cfg.API.AllowedOrigins)
	assert.True(t, cfg.API.AccessLog)
	assert.Equal(t, todo.DriverMemory, cfg.Todo.StoreDriver)
	assert.Equal(t, ":memory:", cfg.Todo.DBPath)
	assert.False(t, cfg.Todo.DBDebug)
	assert.False(t, cfg.CacheEnabled())
	assert.Equal(t, "todo:", cfg.Cache.Prefix)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 100, cfg.ActivityLimit)
	assert.False(t, cfg.ErrorsOnly())
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("DB_DEBUG", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("ACTIVITY_LIMIT", "10")
	t.Setenv("LOG_LEVEL", "ERROR")

	cfg := loadConfig()

	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, todo.DriverSQLite, cfg.Todo.StoreDriver)
	assert.True(t, cfg.Todo.DBDebug)
	assert.True(t, cfg.CacheEnabled())
	assert.True(t, cfg.API.CacheEnabled)
	assert.Equal(t, 5*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.ActivityLimit)
	assert.True(t, cfg.ErrorsOnly())
	assert.False(t, cfg.API.AccessLog)
}

func TestGetEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TEST_INT", "abc")
	t.Setenv("TEST_BOOL", "maybe")
	t.Setenv("TEST_DURATION", "soon")

	assert.Equal(t, 7, getEnvInt("TEST_INT", 7))
	assert.True(t, getEnvBool("TEST_BOOL", true))
	assert.Equal(t, time.Minute, getEnvDuration("TEST_DURATION", time.Minute))
}
