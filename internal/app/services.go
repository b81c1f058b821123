package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/neurobridge-onboarding/internal/config"
	"github.com/yungbote/neurobridge-onboarding/internal/observability"
	"github.com/yungbote/neurobridge-onboarding/internal/onboarding"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
	"github.com/yungbote/neurobridge-onboarding/internal/realtime"
	"github.com/yungbote/neurobridge-onboarding/internal/realtime/bus"
	"github.com/yungbote/neurobridge-onboarding/internal/usercache"
)

type Services struct {
	Hub      *realtime.SSEHub
	Bus      bus.Bus
	Notifier realtime.Notifier
	Users    *usercache.Cache
	Registry *onboarding.Registry
}

// wireNotifier picks the Redis bus when configured so completions reach
// SSE clients on every replica; otherwise it broadcasts in-process.
func wireNotifier(ctx context.Context, log *logger.Logger, cfg *config.Config, hub *realtime.SSEHub) (bus.Bus, realtime.Notifier, error) {
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, realtime.HubNotifier{Hub: hub}, nil
	}
	b, err := bus.NewRedisBus(ctx, log, bus.RedisOptions{Addr: cfg.Redis.Addr, Channel: cfg.Redis.Channel})
	if err != nil {
		return nil, nil, fmt.Errorf("init redis bus: %w", err)
	}
	return b, b, nil
}

func wireServices(ctx context.Context, log *logger.Logger, cfg *config.Config, clients Clients, repos Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	hub := realtime.NewSSEHub(log)
	b, notifier, err := wireNotifier(ctx, log, cfg, hub)
	if err != nil {
		return Services{}, err
	}

	users, err := usercache.New(log, clients.UserProfile, cfg.Flow.UserCacheSize, cfg.Flow.UserCacheTTL)
	if err != nil {
		return Services{}, err
	}

	deps := onboarding.Deps{
		Log:      log,
		Profiler: clients.Profiler,
		Profiles: clients.UserProfile,
		Notifier: notifier,
		Users:    users,
		Recorder: repos.CompletionRecords,
		Settings: onboarding.Settings{
			NotifySettleDelay: cfg.Flow.NotifySettleDelay,
			ExitSettleDelay:   cfg.Flow.ExitSettleDelay,
			SyncTimeout:       cfg.Flow.SyncTimeout,
			BlueprintTimeout:  cfg.Flow.BlueprintTimeout,
		},
	}
	if metrics != nil {
		deps.Observer = metrics
	}
	registry, err := onboarding.NewRegistry(deps, cfg.Flow.RegistrySize, cfg.Flow.RegistryTTL)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Hub:      hub,
		Bus:      b,
		Notifier: notifier,
		Users:    users,
		Registry: registry,
	}, nil
}
