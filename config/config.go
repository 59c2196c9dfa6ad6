package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the complete stockbook configuration
type Config struct {
	Database DatabaseConfig `json:"database" yaml:"database"`
	Quotes   QuotesConfig   `json:"quotes" yaml:"quotes"`
	Account  AccountConfig  `json:"account" yaml:"account"`
}

// DatabaseConfig locates the SQLite ledger
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path"`
}

// QuotesConfig selects and configures the quote source
type QuotesConfig struct {
	Type  string            `json:"type" yaml:"type"` // "static" or "http"
	URL   string            `json:"url,omitempty" yaml:"url,omitempty"`
	Token string            `json:"token,omitempty" yaml:"token,omitempty"`
	Fixed map[string]string `json:"fixed,omitempty" yaml:"fixed,omitempty"` // symbol -> price, static only
}

// AccountConfig names the default account and its opening balance
type AccountConfig struct {
	ID          string `json:"id" yaml:"id"`
	OpeningCash string `json:"opening_cash" yaml:"opening_cash"`
}

// Opening parses the configured opening balance; empty means zero.
func (a AccountConfig) Opening() (decimal.Decimal, error) {
	raw := a.OpeningCash
	if raw == "" {
		raw = "0"
	}
	return decimal.NewFromString(raw)
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Account.ID == "" {
		return fmt.Errorf("account.id is required")
	}
	opening, err := c.Account.Opening()
	if err != nil {
		return fmt.Errorf("account.opening_cash is not a valid amount: %q", c.Account.OpeningCash)
	}
	if opening.IsNegative() {
		return fmt.Errorf("account.opening_cash must not be negative")
	}

	switch c.Quotes.Type {
	case "static":
		for sym, raw := range c.Quotes.Fixed {
			p, err := decimal.NewFromString(raw)
			if err != nil || !p.IsPositive() {
				return fmt.Errorf("quotes.fixed[%s] must be a positive price, got %q", sym, raw)
			}
		}
	case "http":
		if c.Quotes.URL == "" {
			return fmt.Errorf("quotes.url required for http type")
		}
	default:
		return fmt.Errorf("quotes.type must be 'static' or 'http'")
	}

	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "./stockbook.sqlite",
		},
		Quotes: QuotesConfig{
			Type: "static",
			Fixed: map[string]string{
				"AAPL": "150.00",
				"MSFT": "310.00",
				"NFLX": "395.50",
			},
		},
		Account: AccountConfig{
			ID:          "default",
			OpeningCash: "10000.00",
		},
	}
}
