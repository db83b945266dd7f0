package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Server.Port)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.Equal(t, "agents.yaml", cfg.Agents.ConfigPath)
	assert.Equal(t, "mcp-gateway:8811", cfg.GatewayURL)
	assert.Equal(t, 60, cfg.RateLimit.PerMinute)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GITHUB_PERSONAL_ACCESS_TOKEN", "ghp_test_token")
	t.Setenv("GITHUB_API_URL", "http://localhost:4000")
	t.Setenv("AGENTS_CONFIG", "/etc/agents.yaml")
	t.Setenv("MCPGATEWAY_URL", "gateway.internal:8811")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("CACHE_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "ghp_test_token", cfg.GitHub.Token)
	assert.Equal(t, "http://localhost:4000", cfg.GitHub.BaseURL)
	assert.Equal(t, "/etc/agents.yaml", cfg.Agents.ConfigPath)
	assert.Equal(t, "gateway.internal:8811", cfg.GatewayURL)
	assert.Equal(t, 120, cfg.RateLimit.PerMinute)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoad_LegacyTokenVariable(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_legacy_token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ghp_legacy_token", cfg.GitHub.Token)
}
