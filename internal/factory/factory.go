package factory

import (
	"io"
	"log/slog"

	"github.com/mhalloran/golfsync/internal/api/sse"
	"github.com/mhalloran/golfsync/internal/auth"
	"github.com/mhalloran/golfsync/internal/dependencies/clock"
	"github.com/mhalloran/golfsync/internal/dependencies/random"
	"github.com/mhalloran/golfsync/internal/round"
	"github.com/mhalloran/golfsync/internal/storage"
	"github.com/mhalloran/golfsync/internal/storage/blob"
	"github.com/mhalloran/golfsync/internal/storage/hybrid"
	"github.com/mhalloran/golfsync/internal/storage/local"
	"github.com/mhalloran/golfsync/internal/storage/remote"
	"github.com/mhalloran/golfsync/internal/support"
)

// App contains all wired application components
type App struct {
	// Storage
	Blobs blob.Store
	Local *local.Store
	// Remote is nil when no Redis URL is configured; the app then runs
	// local-only.
	Remote *remote.Store
	DB     *hybrid.DB

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService    *auth.Service
	RoundManager   *round.Manager
	SupportService *support.Service
	Relay          *sse.Relay
}

// Config holds configuration for the application factory
type Config struct {
	// DatabasePath is the SQLite file backing local persistence.
	// If empty, an in-memory blob store is used instead.
	DatabasePath string
	// RedisURL enables the shared backend when non-empty.
	RedisURL string
	// RemoteConfig holds remote store settings beyond the URL (optional)
	// If zero value, defaults to remote.DefaultConfig()
	RemoteConfig remote.Config
	// RoundConfig holds round lifecycle settings (optional)
	// If zero value, defaults to round.DefaultConfig()
	RoundConfig round.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var blobs blob.Store
	if cfg.DatabasePath != "" {
		sqlBlobs, err := blob.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		blobs = sqlBlobs
	} else {
		blobs = blob.NewMemory()
	}

	localStore := local.New(blobs, blob.KeyPathDocument, logger)

	var remoteStore *remote.Store
	var sharedBackend storage.Store = localStore
	if cfg.RedisURL != "" {
		remoteCfg := cfg.RemoteConfig
		if remoteCfg.URL == "" {
			remoteCfg = remote.DefaultConfig()
		}
		remoteCfg.URL = cfg.RedisURL
		remoteStore = remote.New(remoteCfg, localStore, logger)
		sharedBackend = remoteStore
	}

	db := hybrid.New(localStore, sharedBackend)

	clk := clock.New()
	rnd := random.New()

	roundCfg := cfg.RoundConfig
	if roundCfg.GraceWindow == 0 {
		roundCfg = round.DefaultConfig()
	}

	return newWithDependencies(blobs, localStore, remoteStore, db, clk, rnd, roundCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	blobs blob.Store,
	localStore *local.Store,
	remoteStore *remote.Store,
	db *hybrid.DB,
	clk clock.Clock,
	rnd random.Random,
	roundCfg round.Config,
	logger *slog.Logger,
) *App {
	authService := auth.New(db, blobs, clk, logger)
	roundManager := round.NewManager(db, clk, rnd, logger, roundCfg)
	supportService := support.New(db, clk, logger)
	relay := sse.NewRelay(roundManager, logger)

	return &App{
		Blobs:          blobs,
		Local:          localStore,
		Remote:         remoteStore,
		DB:             db,
		Clock:          clk,
		Random:         rnd,
		AuthService:    authService,
		RoundManager:   roundManager,
		SupportService: supportService,
		Relay:          relay,
	}
}

// Close releases the app's backing resources.
func (a *App) Close() error {
	a.Relay.Close()
	if a.Remote != nil {
		if err := a.Remote.Close(); err != nil {
			return err
		}
	}
	if c, ok := a.Blobs.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
