package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "NB"

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_header_timeout", 5*time.Second)
	v.SetDefault("http.idle_timeout", 2*time.Minute)
	v.SetDefault("http.shutdown_timeout", 15*time.Second)
	v.SetDefault("http.allowed_origins", []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	})

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("profiler.base_url", "http://localhost:8001")
	v.SetDefault("profiler.timeout", 30*time.Second)
	v.SetDefault("user_profile.base_url", "http://localhost:8000")
	v.SetDefault("user_profile.timeout", 15*time.Second)

	v.SetDefault("flow.notify_settle_delay", 500*time.Millisecond)
	v.SetDefault("flow.exit_settle_delay", 300*time.Millisecond)
	v.SetDefault("flow.sync_timeout", 30*time.Second)
	v.SetDefault("flow.blueprint_timeout", 10*time.Second)
	v.SetDefault("flow.registry_size", 4096)
	v.SetDefault("flow.registry_ttl", 2*time.Hour)
	v.SetDefault("flow.user_cache_size", 4096)
	v.SetDefault("flow.user_cache_ttl", 10*time.Minute)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.channel", "onboarding-events")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:onboarding.db?cache=shared")

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service_name", "neurobridge-onboarding")
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.sample_ratio", 0.1)
	v.SetDefault("otel.version", "dev")

	v.SetDefault("metrics.enabled", true)
}

// Load resolves configuration from defaults, an optional YAML file
// (NB_CONFIG_PATH or ./config/config.yaml) and NB_* environment variables,
// in increasing priority.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfgPath := strings.TrimSpace(os.Getenv("NB_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if mode := strings.TrimSpace(os.Getenv("LOG_MODE")); mode != "" {
		cfg.Env = mode
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.Env) == "" {
		c.Env = "development"
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		c.HTTP.Addr = ":8080"
	}

	for name, svc := range map[string]*ServiceConfig{"profiler": &c.Profiler, "user_profile": &c.UserProfile} {
		svc.BaseURL = strings.TrimRight(strings.TrimSpace(svc.BaseURL), "/")
		if svc.BaseURL == "" {
			return fmt.Errorf("%s.base_url is required", name)
		}
		if _, err := url.ParseRequestURI(svc.BaseURL); err != nil {
			return fmt.Errorf("%s.base_url invalid: %w", name, err)
		}
		if svc.Timeout < 0 {
			return fmt.Errorf("%s.timeout must not be negative", name)
		}
	}

	if c.Flow.NotifySettleDelay < 0 || c.Flow.ExitSettleDelay < 0 {
		return errors.New("flow settle delays must not be negative")
	}
	if c.Flow.SyncTimeout <= 0 {
		c.Flow.SyncTimeout = 30 * time.Second
	}
	if c.Flow.BlueprintTimeout <= 0 {
		c.Flow.BlueprintTimeout = 10 * time.Second
	}
	if c.Flow.RegistrySize <= 0 {
		c.Flow.RegistrySize = 4096
	}
	if c.Flow.UserCacheSize <= 0 {
		c.Flow.UserCacheSize = 4096
	}

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case "postgres", "sqlite":
	case "":
		c.Database.Driver = "sqlite"
	default:
		return fmt.Errorf("database.driver %q unsupported", c.Database.Driver)
	}

	if c.Otel.SampleRatio < 0 {
		c.Otel.SampleRatio = 0
	}
	if c.Otel.SampleRatio > 1 {
		c.Otel.SampleRatio = 1
	}
	if strings.TrimSpace(c.Redis.Channel) == "" {
		c.Redis.Channel = "onboarding-events"
	}
	return nil
}

// Production reports whether the service runs with production logging.
func (c *Config) Production() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}
