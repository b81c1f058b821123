package config

import "time"

type HTTPConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
}

type AuthConfig struct {
	// JWTSecret verifies HS256 bearer tokens issued by the user profile service.
	JWTSecret string `mapstructure:"jwt_secret"`
}

// ServiceConfig describes one downstream collaborator.
type ServiceConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FlowConfig struct {
	// NotifySettleDelay separates the profiling-completed broadcast from the
	// cached-user refresh so listeners can react first.
	NotifySettleDelay time.Duration `mapstructure:"notify_settle_delay"`
	// ExitSettleDelay runs after the exit-time refresh, before redirecting.
	ExitSettleDelay time.Duration `mapstructure:"exit_settle_delay"`
	// SyncTimeout bounds the detached post-completion work.
	SyncTimeout time.Duration `mapstructure:"sync_timeout"`
	// BlueprintTimeout bounds the optional blueprint fetch after completion.
	BlueprintTimeout time.Duration `mapstructure:"blueprint_timeout"`

	RegistrySize int           `mapstructure:"registry_size"`
	RegistryTTL  time.Duration `mapstructure:"registry_ttl"`

	UserCacheSize int           `mapstructure:"user_cache_size"`
	UserCacheTTL  time.Duration `mapstructure:"user_cache_ttl"`
}

type RedisConfig struct {
	Addr    string `mapstructure:"addr"`
	Channel string `mapstructure:"channel"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type OtelConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	Version     string  `mapstructure:"version"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Config struct {
	Env         string         `mapstructure:"env"`
	HTTP        HTTPConfig     `mapstructure:"http"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Profiler    ServiceConfig  `mapstructure:"profiler"`
	UserProfile ServiceConfig  `mapstructure:"user_profile"`
	Flow        FlowConfig     `mapstructure:"flow"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Database    DatabaseConfig `mapstructure:"database"`
	Otel        OtelConfig     `mapstructure:"otel"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
}
