package app

import (
	"context"

	"github.com/yungbote/neurobridge-onboarding/internal/config"
	"github.com/yungbote/neurobridge-onboarding/internal/data/db"
	httpx "github.com/yungbote/neurobridge-onboarding/internal/http"
	httpH "github.com/yungbote/neurobridge-onboarding/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-onboarding/internal/http/middleware"
	"github.com/yungbote/neurobridge-onboarding/internal/observability"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg *config.Config, database *db.Service, repos Repos, services Services, metrics *observability.Metrics) httpx.RouterConfig {
	checks := map[string]httpH.Check{
		"database": database.Ping,
	}
	if services.Bus != nil {
		checks["redis"] = func(ctx context.Context) error { return services.Bus.Ping(ctx) }
	}

	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpx.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.HTTP.AllowedOrigins,
		Metrics:           metrics,
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, cfg.Auth.JWTSecret),
		OnboardingHandler: httpH.NewOnboardingHandler(log, services.Registry),
		HistoryHandler:    httpH.NewHistoryHandler(log, repos.CompletionRecords),
		UserHandler:       httpH.NewUserHandler(services.Users),
		RealtimeHandler:   httpH.NewRealtimeHandler(log, services.Hub),
		HealthHandler:     httpH.NewHealthHandler(checks),
	}
}
