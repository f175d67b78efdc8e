package app

import (
	"context"
	"flashauction/packages/common/config"
	"flashauction/packages/common/logger"
	"flashauction/packages/core/auction"
	"flashauction/packages/core/bid"
	"flashauction/packages/infrastructure/DB/postgres"
	"flashauction/packages/infrastructure/cache"
	"flashauction/packages/infrastructure/cache/redis"
	"flashauction/packages/infrastructure/postgrest"
	HealthController "flashauction/packages/presentation/api/http/controllers/health"
	"flashauction/packages/presentation/api/http/router"
	"io"
	"os"
	"time"
)

var appLogger = logger.NewSource("APP", logger.Default)

const logFile = "flashauction.log"

type App struct {
	Config *config.Manager
	DB     *postgres.Driver
	Cache  *redis.Driver

	logs io.Closer
}

func New(cfg *config.Manager) *App {
	return &App{Config: cfg}
}

// Loads config and applies CLI flags on top of it.
func (a *App) InitConfig() {
	if err := a.Config.Init(); err != nil {
		appLogger.Fatal("Failed to initialize config", err.Error(), nil)
	}

	a.applyLogFlags(a.Config.Current())

	// Flags must survive config reloads
	a.Config.OnReload(a.applyLogFlags)
}

func (a *App) applyLogFlags(cfg *config.Config) {
	logger.Debug.Store(cfg.Debug().Enabled || *Args.Debug)
	logger.Trace.Store(cfg.App().TraceLogsEnabled || *Args.TraceLogs)
}

// All init logs are shown in terminal, after init logs are written
// to the terminal only if it's enabled, otherwise to the log file.
func (a *App) EndInit() {
	if a.Config.Current().App().ShowLogs || *Args.ShowLogs {
		return
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		appLogger.Error("Failed to open log file, logs will be written to stdout", err.Error(), nil)
		return
	}

	appLogger.Info("Logs are written to "+logFile, nil)

	logger.Default.SetOutput(f)
	a.logs = f
}

func (a *App) InitConnections(ctx context.Context) {
	appLogger.Info("Initializing connections...", nil)

	a.DB = postgres.NewDriver(a.Config)
	if err := a.DB.Connect(ctx); err != nil {
		appLogger.Fatal("Failed to connect to DB", err.Error(), nil)
	}

	cfg := a.Config.Current()
	secrets := a.Config.Secrets()

	a.Cache = redis.New(redis.Options{
		Addr:             secrets.CacheURI,
		Password:         secrets.CachePassword,
		DB:               secrets.CacheDB,
		SocketTimeout:    cfg.Cache().SocketTimeout(),
		OperationTimeout: cfg.Cache().OperationTimeout(),
		TTL:              cfg.Cache().TTL(),
	})
	if err := a.Cache.Connect(ctx); err != nil {
		appLogger.Fatal("Failed to connect to cache", err.Error(), nil)
	}

	appLogger.Info("Initializing connections: OK", nil)
}

// Returns auctions repository and bid store of the configured driver.
func (a *App) stores() (auction.Repository, bid.Store) {
	cfg := a.Config.Current()

	if cfg.Store().Driver != "postgrest" {
		return a.DB.Auctions(), a.DB.Bids()
	}

	client, err := postgrest.New(postgrest.Config{
		URL:     cfg.Store().PostgrestURL,
		APIKey:  a.Config.Secrets().PostgrestAPIKey,
		Timeout: cfg.Store().Timeout(),
	})
	if err != nil {
		appLogger.Fatal("Failed to create PostgREST client", err.Error(), nil)
	}

	return postgrest.NewAuctionRepository(client), postgrest.NewBidStore(client)
}

func (a *App) InitRouter() *router.Dependencies {
	appLogger.Info("Initializing router...", nil)

	auctions, bids := a.stores()

	appLogger.Info("Store driver: "+a.Config.Current().Store().Driver, nil)

	return &router.Dependencies{
		Config:   a.Config,
		Listings: a.DB.Listings(),
		Auctions: cache.NewAuctions(auctions, a.Cache),
		Bids:     bid.NewWorkflow(cache.NewBids(bids, a.Cache)),
		Health: map[string]HealthController.Pinger{
			"db":    a.DB,
			"cache": a.Cache,
		},
	}
}

func (a *App) Shutdown() {
	appLogger.Info("Shutting down...", nil)

	if a.DB != nil {
		if err := a.DB.Disconnect(); err != nil {
			appLogger.Error("Failed to disconnect from DB", err.Error(), nil)
		}
	}

	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			appLogger.Error("Failed to disconnect from cache", err.Error(), nil)
		}
	}

	appLogger.Info("Shut down", nil)

	if a.logs != nil {
		logger.Default.SetOutput(os.Stdout)
		a.logs.Close()
	}
}

const shutdownTimeout = time.Second * 5
