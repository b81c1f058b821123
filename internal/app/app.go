package app

import (
	"context"
	"fmt"

	"github.com/yungbote/neurobridge-onboarding/internal/config"
	"github.com/yungbote/neurobridge-onboarding/internal/data/db"
	httpx "github.com/yungbote/neurobridge-onboarding/internal/http"
	"github.com/yungbote/neurobridge-onboarding/internal/observability"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
	"github.com/yungbote/neurobridge-onboarding/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	DB       *db.Service
	Metrics  *observability.Metrics
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *httpx.Server

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context, log *logger.Logger, cfg *config.Config) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, cfg.Env, cfg.Otel)

	database, err := db.Open(log, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(database.DB()); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	clients, err := WireClients(log, cfg)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	reposet := wireRepos(database.DB(), log)
	serviceset, err := wireServices(ctx, log, cfg, clients, reposet, metrics)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	server := httpx.NewServer(log, httpx.ServerOptions{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout,
	}, wireRouter(log, cfg, database, reposet, serviceset, metrics))

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           database,
		Metrics:      metrics,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background loops: the Redis forwarder into the local hub
// and the metrics collectors.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.Services.Bus != nil {
		hub := a.Services.Hub
		if err := a.Services.Bus.StartForwarder(ctx, func(m realtime.SSEMessage) { hub.Broadcast(m) }); err != nil {
			return fmt.Errorf("start redis forwarder: %w", err)
		}
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.Redis.Addr, 0)
	}
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB.DB(), 0)
	return nil
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	return a.Server.Run(ctx)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.Bus != nil {
		if err := a.Services.Bus.Close(); err != nil {
			a.Log.Warn("redis bus close failed", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
