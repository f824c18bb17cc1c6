package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server           ServerConfig           `yaml:"server"`
	Chain            ChainConfig            `yaml:"chain"`
	DataAPI          DataAPIConfig          `yaml:"dataAPI"`
	PortfolioService PortfolioServiceConfig `yaml:"portfolioService"`
	Store            StoreConfig            `yaml:"store"`
	Scheduler        SchedulerConfig        `yaml:"scheduler"`
	Logging          LoggingConfig          `yaml:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// ChainConfig holds the configuration for the on-chain balance source.
type ChainConfig struct {
	RPCEndpoint   string `yaml:"rpcEndpoint"`
	USDCContract  string `yaml:"usdcContract"`
	TokenDecimals int32  `yaml:"tokenDecimals"`
	RPCTimeoutMs  int64  `yaml:"rpcTimeoutMs"`
	RateLimit     int    `yaml:"rateLimit"`
	BurstLimit    int    `yaml:"burstLimit"`
}

// DataAPIConfig holds the configuration for the positions-value client.
type DataAPIConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	UserAgent            string `yaml:"userAgent"`
}

// PortfolioServiceConfig holds configuration for the PortfolioService.
type PortfolioServiceConfig struct {
	MaxConcurrentRequests int `yaml:"maxConcurrentRequests"`
}

// StoreConfig holds configuration for the durable snapshot store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// SchedulerConfig holds configuration for the recurring refresh job.
type SchedulerConfig struct {
	Enabled     bool   `yaml:"enabled"`
	RefreshSpec string `yaml:"refreshSpec"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	// Apply default values for the chain client if not set
	if cfg.Chain.RPCEndpoint == "" {
		cfg.Chain.RPCEndpoint = "https://polygon-rpc.com"
		logrus.Infof("Chain.RPCEndpoint not set, defaulting to %s", cfg.Chain.RPCEndpoint)
	}
	if cfg.Chain.USDCContract == "" {
		cfg.Chain.USDCContract = "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
		logrus.Infof("Chain.USDCContract not set, defaulting to %s", cfg.Chain.USDCContract)
	}
	if cfg.Chain.TokenDecimals == 0 {
		cfg.Chain.TokenDecimals = 6 // USDC precision
		logrus.Infof("Chain.TokenDecimals not set, defaulting to %d", cfg.Chain.TokenDecimals)
	}
	if cfg.Chain.RPCTimeoutMs == 0 {
		cfg.Chain.RPCTimeoutMs = 10000 // Default to 10 seconds
		logrus.Infof("Chain.RPCTimeoutMs not set, defaulting to %d ms", cfg.Chain.RPCTimeoutMs)
	}
	if cfg.Chain.RateLimit == 0 {
		cfg.Chain.RateLimit = 10
		logrus.Infof("Chain.RateLimit not set, defaulting to %d rps", cfg.Chain.RateLimit)
	}
	if cfg.Chain.BurstLimit == 0 {
		cfg.Chain.BurstLimit = 5
		logrus.Infof("Chain.BurstLimit not set, defaulting to %d", cfg.Chain.BurstLimit)
	}

	// Apply default values for the data API client if not set
	if cfg.DataAPI.BaseURL == "" {
		cfg.DataAPI.BaseURL = "https://data-api.polymarket.com"
		logrus.Infof("DataAPI.BaseURL not set, defaulting to %s", cfg.DataAPI.BaseURL)
	}
	if cfg.DataAPI.RequestTimeoutMillis == 0 {
		cfg.DataAPI.RequestTimeoutMillis = 10000 // Default to 10 seconds
		logrus.Infof("DataAPI.RequestTimeoutMillis not set, defaulting to %d ms", cfg.DataAPI.RequestTimeoutMillis)
	}
	if cfg.DataAPI.UserAgent == "" {
		cfg.DataAPI.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
	}

	if cfg.PortfolioService.MaxConcurrentRequests == 0 {
		cfg.PortfolioService.MaxConcurrentRequests = 5
		logrus.Infof("PortfolioService.MaxConcurrentRequests not set, defaulting to %d", cfg.PortfolioService.MaxConcurrentRequests)
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = "data/portfolio.db"
		logrus.Infof("Store.Path not set, defaulting to %s", cfg.Store.Path)
	}

	if cfg.Scheduler.RefreshSpec == "" {
		cfg.Scheduler.RefreshSpec = "@every 1m"
		logrus.Infof("Scheduler.RefreshSpec not set, defaulting to %s", cfg.Scheduler.RefreshSpec)
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}
