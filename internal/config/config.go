// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// RedisAddr is the host:port address of the Redis instance backing the vault.
	RedisAddr string
	// RedisPassword is the password used to authenticate against Redis (empty for none).
	RedisPassword string
	// RedisDB is the Redis logical database index.
	RedisDB int
	// RedisTLSEnabled indicates whether the Redis connection uses TLS.
	RedisTLSEnabled bool
	// RedisPoolSize is the maximum number of pooled connections to Redis.
	RedisPoolSize int
	// RedisDialTimeout is the timeout for establishing new Redis connections.
	RedisDialTimeout time.Duration
	// RedisReadTimeout is the timeout for Redis read operations.
	RedisReadTimeout time.Duration
	// RedisWriteTimeout is the timeout for Redis write operations.
	RedisWriteTimeout time.Duration

	// EncryptionKey is the 64-character hexadecimal (256-bit) vault master key.
	EncryptionKey string
	// EncryptionAlgorithm selects the AEAD cipher ("aes-gcm" or "chacha20-poly1305").
	EncryptionAlgorithm string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// RateLimitEnabled indicates whether per-client rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per client.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// ReaperEnabled indicates whether the background expiry reaper runs.
	ReaperEnabled bool
	// ReaperSchedule is the cron schedule for the expiry reaper.
	ReaperSchedule string
	// ReaperGracePeriod is how long past expiry a record must be before physical deletion.
	ReaperGracePeriod time.Duration

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Redis configuration
		RedisAddr:         env.GetString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     env.GetString("REDIS_PASSWORD", ""),
		RedisDB:           env.GetInt("REDIS_DB", 0),
		RedisTLSEnabled:   env.GetBool("REDIS_TLS_ENABLED", false),
		RedisPoolSize:     env.GetInt("REDIS_POOL_SIZE", 10),
		RedisDialTimeout:  env.GetDuration("REDIS_DIAL_TIMEOUT_SECONDS", 5, time.Second),
		RedisReadTimeout:  env.GetDuration("REDIS_READ_TIMEOUT_SECONDS", 3, time.Second),
		RedisWriteTimeout: env.GetDuration("REDIS_WRITE_TIMEOUT_SECONDS", 3, time.Second),

		// Encryption
		EncryptionKey:       env.GetString("VAULT_ENCRYPTION_KEY", ""),
		EncryptionAlgorithm: env.GetString("VAULT_ENCRYPTION_ALGORITHM", "aes-gcm"),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Rate Limiting
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "redkeep"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Expiry reaper
		ReaperEnabled:     env.GetBool("REAPER_ENABLED", true),
		ReaperSchedule:    env.GetString("REAPER_SCHEDULE", "@every 1h"),
		ReaperGracePeriod: env.GetDuration("REAPER_GRACE_PERIOD_MINUTES", 60, time.Minute),

		// Shutdown
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 30, time.Second),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
