// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/redkeep/redkeep/internal/config"
	"github.com/redkeep/redkeep/internal/http"
	"github.com/redkeep/redkeep/internal/metrics"
	"github.com/redkeep/redkeep/internal/store"
	"github.com/redkeep/redkeep/internal/vault/crypto"
	vaulthttp "github.com/redkeep/redkeep/internal/vault/http"
	"github.com/redkeep/redkeep/internal/vault/repository"
	"github.com/redkeep/redkeep/internal/vault/usecase"
	"github.com/redkeep/redkeep/internal/vault/worker"
)

// Container holds all application dependencies and provides methods to access
// them. It follows the lazy initialization pattern - components are created on
// first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger      *slog.Logger
	redisClient *redis.Client

	// Vault components
	secretRepo      *repository.RedisSecretRepository
	cipher          *crypto.Cipher
	secretUseCase   usecase.SecretUseCase
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	reaper        *worker.Reaper

	// Initialization flags for thread-safety
	loggerInit          sync.Once
	redisClientInit     sync.Once
	secretRepoInit      sync.Once
	cipherInit          sync.Once
	secretUseCaseInit   sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	reaperInit          sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// RedisClient returns the shared Redis client.
// The client is pooled and safe for concurrent use across all components.
func (c *Container) RedisClient() (*redis.Client, error) {
	c.redisClientInit.Do(func() {
		client, err := c.initRedisClient()
		if err != nil {
			c.initErrors["redisClient"] = err
			return
		}
		c.redisClient = client
	})
	if storedErr, exists := c.initErrors["redisClient"]; exists {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// SecretRepository returns the secret repository instance.
func (c *Container) SecretRepository() (*repository.RedisSecretRepository, error) {
	c.secretRepoInit.Do(func() {
		repo, err := c.initSecretRepository()
		if err != nil {
			c.initErrors["secretRepo"] = err
			return
		}
		c.secretRepo = repo
	})
	if storedErr, exists := c.initErrors["secretRepo"]; exists {
		return nil, storedErr
	}
	return c.secretRepo, nil
}

// Cipher returns the vault cipher built from the configured master key.
func (c *Container) Cipher() (*crypto.Cipher, error) {
	c.cipherInit.Do(func() {
		cipher, err := crypto.New(c.config.EncryptionKey, c.config.EncryptionAlgorithm)
		if err != nil {
			c.initErrors["cipher"] = err
			return
		}
		c.cipher = cipher
	})
	if storedErr, exists := c.initErrors["cipher"]; exists {
		return nil, storedErr
	}
	return c.cipher, nil
}

// SecretUseCase returns the secret use case, decorated with metrics
// instrumentation when metrics are enabled.
func (c *Container) SecretUseCase() (usecase.SecretUseCase, error) {
	c.secretUseCaseInit.Do(func() {
		useCase, err := c.initSecretUseCase()
		if err != nil {
			c.initErrors["secretUseCase"] = err
			return
		}
		c.secretUseCase = useCase
	})
	if storedErr, exists := c.initErrors["secretUseCase"]; exists {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

// MetricsProvider returns the metrics provider instance.
// Returns nil without error when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Falls back to a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		businessMetrics, err := c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics = businessMetrics
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance.
// Returns nil without error when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		server, err := c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		c.metricsServer = server
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Reaper returns the expiry reaper worker.
// Returns nil without error when the reaper is disabled.
func (c *Container) Reaper() (*worker.Reaper, error) {
	c.reaperInit.Do(func() {
		if !c.config.ReaperEnabled {
			return
		}
		reaper, err := c.initReaper()
		if err != nil {
			c.initErrors["reaper"] = err
			return
		}
		c.reaper = reaper
	})
	if storedErr, exists := c.initErrors["reaper"]; exists {
		return nil, storedErr
	}
	return c.reaper, nil
}

// Shutdown gracefully releases all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if c.reaper != nil {
		c.reaper.Stop()
	}

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown http server: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown metrics server: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown metrics provider: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	return nil
}

// initLogger creates the logger based on the configured log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initRedisClient connects the shared Redis client and verifies reachability.
func (c *Container) initRedisClient() (*redis.Client, error) {
	client, err := store.Connect(context.Background(), store.Config{
		Addr:         c.config.RedisAddr,
		Password:     c.config.RedisPassword,
		DB:           c.config.RedisDB,
		TLSEnabled:   c.config.RedisTLSEnabled,
		PoolSize:     c.config.RedisPoolSize,
		DialTimeout:  c.config.RedisDialTimeout,
		ReadTimeout:  c.config.RedisReadTimeout,
		WriteTimeout: c.config.RedisWriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// initSecretRepository creates the secret repository instance.
func (c *Container) initSecretRepository() (*repository.RedisSecretRepository, error) {
	client, err := c.RedisClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for secret repository: %w", err)
	}
	return repository.NewRedisSecretRepository(client, c.Logger()), nil
}

// initSecretUseCase creates the secret use case with all its dependencies.
func (c *Container) initSecretUseCase() (usecase.SecretUseCase, error) {
	repo, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for use case: %w", err)
	}

	cipher, err := c.Cipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher for use case: %w", err)
	}

	useCase := usecase.NewSecretUseCase(repo, cipher)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for use case: %w", err)
		}
		useCase = usecase.NewSecretUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	useCase, err := c.SecretUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret use case for http server: %w", err)
	}

	repo, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for http server: %w", err)
	}

	handler := vaulthttp.NewVaultHandler(useCase, logger)

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	if provider != nil {
		return http.NewServer(c.config, handler, repo, provider.MeterProvider(), logger), nil
	}
	return http.NewServer(c.config, handler, repo, nil, logger), nil
}

// initMetricsServer creates the metrics server.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}

// initReaper creates the expiry reaper worker.
func (c *Container) initReaper() (*worker.Reaper, error) {
	useCase, err := c.SecretUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret use case for reaper: %w", err)
	}

	return worker.NewReaper(
		useCase,
		c.config.ReaperSchedule,
		c.config.ReaperGracePeriod,
		c.Logger(),
	)
}
