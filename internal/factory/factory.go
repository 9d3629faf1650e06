package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ncseq/seqserver/internal/dependencies/clock"
	"github.com/ncseq/seqserver/internal/dependencies/random"
	"github.com/ncseq/seqserver/internal/services/coordinator"
	"github.com/ncseq/seqserver/internal/services/registry"
	"github.com/ncseq/seqserver/internal/storage"
	"github.com/ncseq/seqserver/internal/storage/memory"
	redisstorage "github.com/ncseq/seqserver/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Core components
	Registry    *registry.Registry
	Coordinator *coordinator.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the record store backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// WaitTimeout bounds WaitForStart calls without a deadline (optional)
	WaitTimeout time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Store
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
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.WaitTimeout, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Store, clk clock.Clock, rnd random.Random, waitTimeout time.Duration, logger *slog.Logger) *App {
	reg := registry.New(rnd, clk, logger)
	coord := coordinator.NewController(reg, store, clk, logger, waitTimeout)

	return &App{
		Store:       store,
		Clock:       clk,
		Random:      rnd,
		Registry:    reg,
		Coordinator: coord,
	}
}
