// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	auditHTTP "github.com/carebridgehq/chartgate/internal/audit/http"
	auditService "github.com/carebridgehq/chartgate/internal/audit/service"
	auditUseCase "github.com/carebridgehq/chartgate/internal/audit/usecase"
	authHTTP "github.com/carebridgehq/chartgate/internal/auth/http"
	authService "github.com/carebridgehq/chartgate/internal/auth/service"
	authUseCase "github.com/carebridgehq/chartgate/internal/auth/usecase"
	"github.com/carebridgehq/chartgate/internal/config"
	consentHTTP "github.com/carebridgehq/chartgate/internal/consent/http"
	consentService "github.com/carebridgehq/chartgate/internal/consent/service"
	consentUseCase "github.com/carebridgehq/chartgate/internal/consent/usecase"
	"github.com/carebridgehq/chartgate/internal/database"
	disclosureHTTP "github.com/carebridgehq/chartgate/internal/disclosure/http"
	disclosureUseCase "github.com/carebridgehq/chartgate/internal/disclosure/usecase"
	"github.com/carebridgehq/chartgate/internal/http"
	"github.com/carebridgehq/chartgate/internal/metrics"
	programUseCase "github.com/carebridgehq/chartgate/internal/program/usecase"
	"github.com/carebridgehq/chartgate/internal/ratelimit"
)

// Container holds all application dependencies and provides methods to access
// them. It follows the lazy initialization pattern - components are created on
// first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// Services
	secretService authService.SecretService
	tokenService  authService.TokenService
	chainHasher   auditService.ChainHasher
	entrySigner   auditService.EntrySigner
	artifactStore consentService.ArtifactStore
	counterStore  ratelimit.CounterStore
	rateLimiter   *ratelimit.Limiter

	// Repositories
	actorRepo    authUseCase.ActorRepository
	tokenRepo    authUseCase.TokenRepository
	auditRepo    auditUseCase.AuditRepository
	consentRepo  consentUseCase.ConsentRepository
	programRepo  programUseCase.ProgramRepository
	resourceRepo disclosureUseCase.ResourceReader

	// Use Cases
	actorUC      authUseCase.ActorUseCase
	tokenUC      authUseCase.TokenUseCase
	auditUC      auditUseCase.AuditUseCase
	consentUC    consentUseCase.ConsentUseCase
	classifierUC programUseCase.ClassifierUseCase
	disclosureUC disclosureUseCase.DisclosureUseCase

	// Handlers
	tokenHandler      *authHTTP.TokenHandler
	disclosureHandler *disclosureHTTP.DisclosureHandler
	consentHandler    *consentHTTP.ConsentHandler
	chainHandler      *auditHTTP.ChainHandler

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	chainSweeper  *auditUseCase.Sweeper

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	txManagerInit       sync.Once
	secretServiceInit   sync.Once
	tokenServiceInit    sync.Once
	chainHasherInit     sync.Once
	entrySignerInit     sync.Once
	artifactStoreInit   sync.Once
	counterStoreInit    sync.Once
	rateLimiterInit     sync.Once
	actorRepoInit       sync.Once
	tokenRepoInit       sync.Once
	auditRepoInit       sync.Once
	consentRepoInit     sync.Once
	programRepoInit     sync.Once
	resourceRepoInit    sync.Once
	actorUCInit         sync.Once
	tokenUCInit         sync.Once
	auditUCInit         sync.Once
	consentUCInit       sync.Once
	classifierUCInit      sync.Once
	disclosureUCInit      sync.Once
	tokenHandlerInit      sync.Once
	disclosureHandlerInit sync.Once
	consentHandlerInit    sync.Once
	chainHandlerInit      sync.Once
	httpServerInit        sync.Once
	metricsServerInit   sync.Once
	chainSweeperInit    sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
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

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the Prometheus metrics provider.
// It returns nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// A no-op recorder is returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the HTTP server instance with all routes configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.artifactStore != nil {
		if err := c.artifactStore.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("artifact store close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
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

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetricsProvider creates the Prometheus metrics provider.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	tokenUC, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for http server: %w", err)
	}

	tokenHandler, err := c.TokenHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get token handler for http server: %w", err)
	}

	disclosureHandler, err := c.DisclosureHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get disclosure handler for http server: %w", err)
	}

	consentHandler, err := c.ConsentHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent handler for http server: %w", err)
	}

	chainHandler, err := c.ChainHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get chain handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}
	var metricsMiddleware gin.HandlerFunc
	if provider != nil {
		metricsMiddleware = metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(
		c.config,
		metricsMiddleware,
		authHTTP.AuthenticationMiddleware(tokenUC, c.TokenService(), c.Logger()),
		tokenHandler,
		disclosureHandler,
		consentHandler,
		chainHandler,
	)

	return server, nil
}

// initMetricsServer creates the metrics HTTP server.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
