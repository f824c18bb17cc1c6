package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"8405\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8405", cfg.Server.Port)
	assert.Equal(t, "https://polygon-rpc.com", cfg.Chain.RPCEndpoint)
	assert.Equal(t, "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", cfg.Chain.USDCContract)
	assert.Equal(t, int32(6), cfg.Chain.TokenDecimals)
	assert.Equal(t, int64(10000), cfg.Chain.RPCTimeoutMs)
	assert.Equal(t, "https://data-api.polymarket.com", cfg.DataAPI.BaseURL)
	assert.Equal(t, int64(10000), cfg.DataAPI.RequestTimeoutMillis)
	assert.Equal(t, 5, cfg.PortfolioService.MaxConcurrentRequests)
	assert.Equal(t, "data/portfolio.db", cfg.Store.Path)
	assert.Equal(t, "@every 1m", cfg.Scheduler.RefreshSpec)
}

func TestLoadConfigKeepsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
chain:
  rpcEndpoint: "http://localhost:8545"
  rpcTimeoutMs: 3000
dataAPI:
  baseURL: "http://localhost:9000"
portfolioService:
  maxConcurrentRequests: 2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8545", cfg.Chain.RPCEndpoint)
	assert.Equal(t, int64(3000), cfg.Chain.RPCTimeoutMs)
	assert.Equal(t, "http://localhost:9000", cfg.DataAPI.BaseURL)
	assert.Equal(t, 2, cfg.PortfolioService.MaxConcurrentRequests)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")

	_, err := LoadConfig(path)

	assert.Error(t, err)
}
