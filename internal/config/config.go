package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds process configuration, loaded once at startup from the
// environment (optionally seeded from a .env file).
type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	GitHub struct {
		Token   string `mapstructure:"token"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"github"`
	Agents struct {
		ConfigPath string `mapstructure:"config_path"`
	} `mapstructure:"agents"`
	// GatewayURL names the MCP tool gateway. It is read for forward
	// compatibility but the service never connects to it.
	GatewayURL string `mapstructure:"gateway_url"`
	RateLimit  struct {
		PerMinute int `mapstructure:"per_minute"`
	} `mapstructure:"rate_limit"`
	Cache struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`
}

// Load builds the configuration from environment variables with defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, reading process environment only")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "7777")
	v.SetDefault("github.base_url", "https://api.github.com")
	v.SetDefault("agents.config_path", "agents.yaml")
	v.SetDefault("gateway_url", "mcp-gateway:8811")
	v.SetDefault("rate_limit.per_minute", 60)
	v.SetDefault("cache.ttl", 15*time.Minute)

	v.BindEnv("server.port", "PORT")
	v.BindEnv("github.token", "GITHUB_PERSONAL_ACCESS_TOKEN", "GITHUB_TOKEN")
	v.BindEnv("github.base_url", "GITHUB_API_URL")
	v.BindEnv("agents.config_path", "AGENTS_CONFIG")
	v.BindEnv("gateway_url", "MCPGATEWAY_URL")
	v.BindEnv("rate_limit.per_minute", "RATE_LIMIT_PER_MINUTE")
	v.BindEnv("cache.ttl", "CACHE_TTL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
