// Package config loads engine configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the engine configuration.
type Config struct {
	// Providers: Birdeye then Jupiter for quotes and history, Raydium for
	// pair listing.
	JupiterBaseURL string `env:"JUPITER_BASE_URL" envDefault:"https://price.jup.ag/v4"`
	BirdeyeBaseURL string `env:"BIRDEYE_BASE_URL" envDefault:"https://public-api.birdeye.so"`
	BirdeyeAPIKey  string `env:"BIRDEYE_API_KEY"`
	RaydiumBaseURL string `env:"RAYDIUM_BASE_URL" envDefault:"https://api.raydium.io/v2"`

	// Per-call timeout in seconds; the only cancellation mechanism for an
	// in-flight upstream request.
	HTTPTimeoutSec int `env:"HTTP_TIMEOUT_SEC" envDefault:"10"`

	// Trending
	TrendingLimit  int `env:"TRENDING_LIMIT" envDefault:"5"`
	ResolveWorkers int `env:"RESOLVE_WORKERS" envDefault:"6"`

	// Indicators
	HistoryInterval   string  `env:"HISTORY_INTERVAL" envDefault:"1H"`
	HistoryLimit      int     `env:"HISTORY_LIMIT" envDefault:"24"`
	SpikeThresholdPct float64 `env:"SPIKE_THRESHOLD_PCT" envDefault:"50"`

	// Server
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Computed (not from env)
	HTTPTimeout time.Duration `env:"-"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.HTTPTimeoutSec < 1 {
		return fmt.Errorf("HTTP timeout must be at least 1 second")
	}

	if c.TrendingLimit < 1 {
		return fmt.Errorf("trending limit must be at least 1")
	}

	if c.ResolveWorkers < 1 {
		return fmt.Errorf("resolve workers must be at least 1")
	}

	if c.HistoryLimit < 1 {
		return fmt.Errorf("history limit must be at least 1")
	}

	if c.SpikeThresholdPct <= 0 {
		return fmt.Errorf("spike threshold must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
