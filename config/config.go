package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/quantfold/backtester/risk"
)

// Config is the complete run configuration. Money and fraction fields are
// plain numbers in the file and converted to decimals at the boundary.
type Config struct {
	Account   AccountConfig   `json:"account" yaml:"account"`
	Risk      RiskConfig      `json:"risk" yaml:"risk"`
	Execution ExecutionConfig `json:"execution" yaml:"execution"`
	Strategy  StrategyConfig  `json:"strategy" yaml:"strategy"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Data      DataConfig      `json:"data" yaml:"data"`
}

type AccountConfig struct {
	InitialCash float64 `json:"initial_cash" yaml:"initial_cash"`
}

type RiskConfig struct {
	FixedOrderQuantity       int64   `json:"fixed_order_quantity" yaml:"fixed_order_quantity"`
	MaxDrawdown              float64 `json:"max_drawdown" yaml:"max_drawdown"`
	MaxPositionValue         float64 `json:"max_position_value,omitempty" yaml:"max_position_value,omitempty"`
	MaxPositionFraction      float64 `json:"max_position_fraction" yaml:"max_position_fraction"`
	MaxTotalExposureFraction float64 `json:"max_total_exposure_fraction" yaml:"max_total_exposure_fraction"`
	MaxOpenPositions         int     `json:"max_open_positions,omitempty" yaml:"max_open_positions,omitempty"`
}

type ExecutionConfig struct {
	// Model is "instant" or "cost_model".
	Model                string  `json:"model" yaml:"model"`
	SpreadFraction       float64 `json:"spread_fraction,omitempty" yaml:"spread_fraction,omitempty"`
	BaseSlippageFraction float64 `json:"base_slippage_fraction,omitempty" yaml:"base_slippage_fraction,omitempty"`
	ImpactPerShare       float64 `json:"impact_per_share,omitempty" yaml:"impact_per_share,omitempty"`
	SlippageVolatility   float64 `json:"slippage_volatility,omitempty" yaml:"slippage_volatility,omitempty"`
	Seed                 int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
}

type StrategyConfig struct {
	Name      string  `json:"name" yaml:"name"`
	Symbol    string  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Window    int     `json:"window,omitempty" yaml:"window,omitempty"`
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Fast      int     `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow      int     `json:"slow,omitempty" yaml:"slow,omitempty"`
}

type JournalConfig struct {
	// Type is "none", "csv" or "sqlite".
	Type           string `json:"type" yaml:"type"`
	FillsFile      string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	EquityFile     string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	RejectionsFile string `json:"rejections_file,omitempty" yaml:"rejections_file,omitempty"`
	DBPath         string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type DataConfig struct {
	CSVPath string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration; format follows the file extension.
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

// Validate checks the configuration before a run is built from it.
func (c *Config) Validate() error {
	if c.Account.InitialCash <= 0 {
		return fmt.Errorf("account.initial_cash must be positive")
	}
	if c.Risk.FixedOrderQuantity <= 0 {
		return fmt.Errorf("risk.fixed_order_quantity must be positive")
	}
	if c.Risk.MaxDrawdown < 0 || c.Risk.MaxDrawdown > 1 {
		return fmt.Errorf("risk.max_drawdown must be a fraction between 0 and 1")
	}
	if c.Risk.MaxPositionFraction < 0 || c.Risk.MaxPositionFraction > 1 {
		return fmt.Errorf("risk.max_position_fraction must be a fraction between 0 and 1")
	}
	if c.Risk.MaxTotalExposureFraction < 0 || c.Risk.MaxTotalExposureFraction > 1 {
		return fmt.Errorf("risk.max_total_exposure_fraction must be a fraction between 0 and 1")
	}
	switch c.Execution.Model {
	case "", "instant":
	case "cost_model":
		if c.Execution.SpreadFraction < 0 || c.Execution.BaseSlippageFraction < 0 ||
			c.Execution.ImpactPerShare < 0 || c.Execution.SlippageVolatility < 0 {
			return fmt.Errorf("execution cost parameters must be non-negative")
		}
	default:
		return fmt.Errorf("execution.model must be 'instant' or 'cost_model'")
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.FillsFile == "" || c.Journal.EquityFile == "" || c.Journal.RejectionsFile == "" {
			return fmt.Errorf("journal fills_file, equity_file and rejections_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Policy converts the risk block into an admission-control policy.
func (c *Config) Policy() risk.Policy {
	return risk.Policy{
		FixedQuantity:            c.Risk.FixedOrderQuantity,
		MaxDrawdown:              decimal.NewFromFloat(c.Risk.MaxDrawdown),
		MaxPositionValue:         decimal.NewFromFloat(c.Risk.MaxPositionValue),
		MaxPositionFraction:      decimal.NewFromFloat(c.Risk.MaxPositionFraction),
		MaxTotalExposureFraction: decimal.NewFromFloat(c.Risk.MaxTotalExposureFraction),
		MaxOpenPositions:         c.Risk.MaxOpenPositions,
	}
}

// InitialCash converts the account balance to a decimal.
func (c *Config) InitialCash() decimal.Decimal {
	return decimal.NewFromFloat(c.Account.InitialCash)
}

// Default returns a runnable configuration with sensible limits.
func Default() *Config {
	return &Config{
		Account: AccountConfig{InitialCash: 10000},
		Risk: RiskConfig{
			FixedOrderQuantity:       10,
			MaxDrawdown:              0.15,
			MaxPositionFraction:      0.25,
			MaxTotalExposureFraction: 0.75,
		},
		Execution: ExecutionConfig{Model: "instant"},
		Strategy: StrategyConfig{
			Name:      "mean-reversion",
			Symbol:    "AAPL",
			Window:    5,
			Threshold: 2.0,
		},
		Journal: JournalConfig{Type: "none"},
	}
}
