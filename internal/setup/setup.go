package setup

import (
	"context"
	"fmt"
	"log"

	"github.com/sbu-community/sentinel/internal/database"
	"github.com/sbu-community/sentinel/internal/identity"
	"github.com/sbu-community/sentinel/internal/redis"
	"github.com/sbu-community/sentinel/internal/registry"
	regredis "github.com/sbu-community/sentinel/internal/registry/redis"
	"github.com/sbu-community/sentinel/internal/registry/sqlite"
	"github.com/sbu-community/sentinel/internal/setup/config"
	"github.com/sbu-community/sentinel/internal/setup/telemetry"
	"go.uber.org/zap"
)

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config     // Application configuration
	Logger       *zap.Logger        // Main application logger
	DBLogger     *zap.Logger        // Database-specific logger
	Registry     registry.Registry  // Ban registry on the configured backend
	Resolver     *identity.Resolver // Display name to external ID lookups
	RedisManager *redis.Manager     // Redis connection manager
	LogManager   *telemetry.Manager // Log management system
	db           *database.Client   // PostgreSQL pool when that backend is selected
	shutdown     func(context.Context) error
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, serviceType telemetry.ServiceType, logDir string) (*App, error) {
	// Load app configuration
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(serviceType, logDir, &cfg.Common.Debug)

	logger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	shutdown := telemetry.SetupTracing(&cfg.Common.Telemetry, serviceType)

	// Redis manager provides connection pools for the redis backend
	redisManager := redis.NewManager(&cfg.Common.Redis, logger)

	reg, db, err := openRegistry(ctx, cfg, redisManager, logger, dbLogger)
	if err != nil {
		redisManager.Close()
		_ = shutdown(ctx)

		return nil, err
	}

	logger.Info("Ban registry ready", zap.String("backend", cfg.Common.Registry.Backend))

	// Bundle all initialized components
	return &App{
		Config:       cfg,
		Logger:       logger,
		DBLogger:     dbLogger,
		Registry:     reg,
		Resolver:     identity.NewResolver(&cfg.Common.Lookup, logger),
		RedisManager: redisManager,
		LogManager:   logManager,
		db:           db,
		shutdown:     shutdown,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	if err := s.Registry.Close(); err != nil {
		s.Logger.Error("Failed to close registry", zap.Error(err))
	}

	// Close database connections
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}

	// Close Redis connections after the registry that may use them
	s.RedisManager.Close()

	if err := s.shutdown(ctx); err != nil {
		log.Printf("Failed to flush traces: %v", err)
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}
}

// openRegistry opens the ban registry on the configured backend.
// The database client is only returned for the postgres backend.
func openRegistry(
	ctx context.Context, cfg *config.Config, redisManager *redis.Manager, logger, dbLogger *zap.Logger,
) (registry.Registry, *database.Client, error) {
	regCfg := cfg.Common.Registry

	switch regCfg.Backend {
	case config.BackendSQLite:
		reg, err := sqlite.New(ctx, regCfg.SQLitePath, regCfg.SQLitePoolSize, dbLogger)
		if err != nil {
			return nil, nil, err
		}

		return reg, nil, nil

	case config.BackendPostgres:
		db, err := database.NewConnection(ctx, &cfg.Common.PostgreSQL, dbLogger)
		if err != nil {
			return nil, nil, err
		}

		return db.Registry(), db, nil

	case config.BackendRedis:
		client, err := redisManager.GetClient(redis.RegistryDBIndex)
		if err != nil {
			return nil, nil, err
		}

		return regredis.New(client, regCfg.RedisPrefix, logger), nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, regCfg.Backend)
	}
}
