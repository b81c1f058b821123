package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/neurobridge-onboarding/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-onboarding/internal/http/middleware"
	"github.com/yungbote/neurobridge-onboarding/internal/observability"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware    *httpMW.AuthMiddleware
	OnboardingHandler *httpH.OnboardingHandler
	HistoryHandler    *httpH.HistoryHandler
	UserHandler       *httpH.UserHandler
	RealtimeHandler   *httpH.RealtimeHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Onboarding entry decides between login redirect and bootstrap.
		if cfg.OnboardingHandler != nil && cfg.AuthMiddleware != nil {
			api.POST("/onboarding/bootstrap", cfg.AuthMiddleware.OptionalAuth(), cfg.OnboardingHandler.Bootstrap)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.OnboardingHandler != nil {
			protected.GET("/onboarding", cfg.OnboardingHandler.GetState)
			protected.POST("/onboarding/advance", cfg.OnboardingHandler.Advance)
			protected.POST("/onboarding/answers", cfg.OnboardingHandler.SubmitAnswer)
			protected.POST("/onboarding/finish", cfg.OnboardingHandler.Finish)
		}

		if cfg.HistoryHandler != nil {
			protected.GET("/onboarding/history", cfg.HistoryHandler.List)
			protected.GET("/onboarding/history/:session_id", cfg.HistoryHandler.Get)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}
	}

	return r
}
