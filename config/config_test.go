package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "mean-reversion", cfg.Strategy.Name)
	assert.True(t, cfg.InitialCash().Equal(decimal.NewFromInt(10000)))

	p := cfg.Policy()
	assert.Equal(t, int64(10), p.FixedQuantity)
	assert.True(t, p.MaxDrawdown.Equal(decimal.NewFromFloat(0.15)))
	assert.True(t, p.MaxPositionFraction.Equal(decimal.NewFromFloat(0.25)))
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "backtester.yaml")

	cfg := Default()
	cfg.Account.InitialCash = 50000
	cfg.Strategy.Name = "momentum"
	cfg.Strategy.Fast = 10
	cfg.Strategy.Slow = 30
	cfg.Execution.Model = "cost_model"
	cfg.Execution.SpreadFraction = 0.01
	cfg.Execution.Seed = 42
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, *cfg, *loaded)
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "backtester.json")

	cfg := Default()
	cfg.Journal.Type = "sqlite"
	cfg.Journal.DBPath = "run.db"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, *cfg, *loaded)
}

func TestLoadMissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  initial_cash: -5\n"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero cash",
			mutate:  func(c *Config) { c.Account.InitialCash = 0 },
			wantErr: "initial_cash",
		},
		{
			name:    "zero quantity",
			mutate:  func(c *Config) { c.Risk.FixedOrderQuantity = 0 },
			wantErr: "fixed_order_quantity",
		},
		{
			name:    "drawdown above one",
			mutate:  func(c *Config) { c.Risk.MaxDrawdown = 1.5 },
			wantErr: "max_drawdown",
		},
		{
			name:    "negative exposure fraction",
			mutate:  func(c *Config) { c.Risk.MaxTotalExposureFraction = -0.1 },
			wantErr: "max_total_exposure_fraction",
		},
		{
			name:    "unknown execution model",
			mutate:  func(c *Config) { c.Execution.Model = "teleport" },
			wantErr: "execution.model",
		},
		{
			name: "negative cost parameter",
			mutate: func(c *Config) {
				c.Execution.Model = "cost_model"
				c.Execution.SpreadFraction = -0.01
			},
			wantErr: "non-negative",
		},
		{
			name:    "missing strategy name",
			mutate:  func(c *Config) { c.Strategy.Name = "" },
			wantErr: "strategy.name",
		},
		{
			name:    "csv journal without files",
			mutate:  func(c *Config) { c.Journal.Type = "csv" },
			wantErr: "fills_file",
		},
		{
			name:    "sqlite journal without path",
			mutate:  func(c *Config) { c.Journal.Type = "sqlite" },
			wantErr: "db_path",
		},
		{
			name:    "unknown journal type",
			mutate:  func(c *Config) { c.Journal.Type = "carrier-pigeon" },
			wantErr: "journal.type",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
