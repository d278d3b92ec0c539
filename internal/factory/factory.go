package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/citygame/checkin/internal/dependencies/clock"
	"github.com/citygame/checkin/internal/services/auth"
	"github.com/citygame/checkin/internal/services/export"
	"github.com/citygame/checkin/internal/services/ledger"
	"github.com/citygame/checkin/internal/services/provision"
	"github.com/citygame/checkin/internal/services/registry"
	"github.com/citygame/checkin/internal/services/scoring"
	"github.com/citygame/checkin/internal/storage"
	"github.com/citygame/checkin/internal/storage/memory"
	redisstorage "github.com/citygame/checkin/internal/storage/redis"
	sqlitestorage "github.com/citygame/checkin/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	AuthService      *auth.Service
	RegistryService  *registry.Service
	LedgerService    *ledger.Service
	ScoringService   *scoring.Service
	ExportService    *export.Service
	ProvisionService *provision.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file path (required if StorageType is "sqlite")
	SQLitePath string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlitestorage.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	clk := clock.New()

	return newWithDependencies(store, clk, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(store, clk, authCfg)
	registryService := registry.New(store, logger)
	ledgerService := ledger.New(store, registryService, clk, logger)
	scoringService := scoring.New(store, logger)
	exportService := export.New(scoringService)
	provisionService := provision.New(store, clk, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		AuthService:      authService,
		RegistryService:  registryService,
		LedgerService:    ledgerService,
		ScoringService:   scoringService,
		ExportService:    exportService,
		ProvisionService: provisionService,
	}
}
