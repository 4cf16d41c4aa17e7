package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/todo-api/modules/activity"
	"github.com/example/todo-api/modules/api"
	"github.com/example/todo-api/modules/cache"
	"github.com/example/todo-api/modules/todo"
)

// Config holds the application configuration, loaded from the environment.
type Config struct {
	API             api.Config
	Todo            todo.Config
	Cache           cache.Config
	ActivityLimit   int
	LogLevel        string
	ShutdownTimeout time.Duration
}

// CacheEnabled reports whether a Redis address was configured.
func (c Config) CacheEnabled() bool {
	return c.Cache.RedisAddr != ""
}

// ErrorsOnly reports whether logging is restricted to errors.
func (c Config) ErrorsOnly() bool {
	return strings.EqualFold(c.LogLevel, "error")
}

func loadConfig() Config {
	logLevel := getEnv("LOG_LEVEL", "info")
	redisAddr := getEnv("REDIS_ADDR", "")
	return Config{
		API: api.Config{
			Port:           getEnvInt("HTTP_PORT", 8080),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			AccessLog:      !strings.EqualFold(logLevel, "error"),
			CacheEnabled:   redisAddr != "",
		},
		Todo: todo.Config{
			StoreDriver: getEnv("STORE_DRIVER", todo.DriverMemory),
			DBPath:      getEnv("DB_PATH", ":memory:"),
			DBDebug:     getEnvBool("DB_DEBUG", false),
		},
		Cache: cache.Config{
			RedisAddr:     redisAddr,
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			Prefix:        getEnv("CACHE_PREFIX", "todo:"),
			TTL:           getEnvDuration("CACHE_TTL", 30*time.Second),
		},
		ActivityLimit:   getEnvInt("ACTIVITY_LIMIT", activity.DefaultLimit),
		LogLevel:        logLevel,
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// getEnv returns environment variable or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
