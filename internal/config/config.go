// Package config loads the server configuration from a YAML (or JSON)
// file. The file path comes from the DASHBOARD_CONFIG environment
// variable; without it the built-in defaults apply. There are
// deliberately no command line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the config path.
const EnvConfigPath = "DASHBOARD_CONFIG"

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Auth    AuthConfig    `json:"auth" yaml:"auth"`
	Account AccountConfig `json:"account" yaml:"account"`
	Market  MarketConfig  `json:"market" yaml:"market"`
}

// ServerConfig contains HTTP listener parameters.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// AuthConfig contains session token parameters. An empty secret falls back
// to the JWT_SECRET environment variable.
type AuthConfig struct {
	JWTSecret string `json:"jwt_secret,omitempty" yaml:"jwt_secret,omitempty"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	StartingBalance float64 `json:"starting_balance" yaml:"starting_balance"`
}

// MarketConfig selects and tunes the market data provider.
type MarketConfig struct {
	// Provider is "sim" or "yahoo".
	Provider string `json:"provider" yaml:"provider"`
	// Timeout bounds outbound provider requests, e.g. "8s".
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Sim configures the simulated market when Provider is "sim".
	Sim SimConfig `json:"sim,omitempty" yaml:"sim,omitempty"`
}

// SimConfig contains the simulated market parameters.
type SimConfig struct {
	// Step is the walk interval, e.g. "2s".
	Step string `json:"step,omitempty" yaml:"step,omitempty"`
	// StartingPrices seeds the symbol set, ticker to price.
	StartingPrices map[string]float64 `json:"starting_prices,omitempty" yaml:"starting_prices,omitempty"`
}

// ParseTimeout converts the provider timeout to a time.Duration.
func (m MarketConfig) ParseTimeout() (time.Duration, error) {
	if m.Timeout == "" {
		return 8 * time.Second, nil
	}
	return time.ParseDuration(m.Timeout)
}

// ParseStep converts the walk interval to a time.Duration.
func (s SimConfig) ParseStep() (time.Duration, error) {
	if s.Step == "" {
		return 2 * time.Second, nil
	}
	return time.ParseDuration(s.Step)
}

// Default returns the configuration used when no file is supplied: a
// simulated market with a handful of familiar tickers.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8080"},
		Account: AccountConfig{StartingBalance: 1000.00},
		Market: MarketConfig{
			Provider: "sim",
			Sim: SimConfig{
				StartingPrices: map[string]float64{
					"AAPL": 190.00,
					"MSFT": 420.00,
					"GOOG": 165.00,
					"TSLA": 250.00,
				},
			},
		},
	}
}

// LoadFromFile loads configuration from a file (YAML or JSON), layered
// over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load resolves the configuration for this process: the file named by
// DASHBOARD_CONFIG when set, the defaults otherwise.
func Load() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return LoadFromFile(path)
	}
	return Default(), nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Account.StartingBalance < 0 {
		return fmt.Errorf("account.starting_balance must not be negative")
	}
	switch c.Market.Provider {
	case "sim", "yahoo":
	default:
		return fmt.Errorf("market.provider must be \"sim\" or \"yahoo\", got %q", c.Market.Provider)
	}
	if _, err := c.Market.ParseTimeout(); err != nil {
		return fmt.Errorf("market.timeout: %w", err)
	}
	if _, err := c.Market.Sim.ParseStep(); err != nil {
		return fmt.Errorf("market.sim.step: %w", err)
	}
	if c.Market.Provider == "sim" && len(c.Market.Sim.StartingPrices) == 0 {
		return fmt.Errorf("market.sim.starting_prices must not be empty for the sim provider")
	}
	return nil
}
