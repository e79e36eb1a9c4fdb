package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "iqr", cfg.Pipeline.OutlierMethod)
	assert.InDelta(t, 1.5, cfg.Pipeline.OutlierThreshold, 1e-9)
	assert.Equal(t, "infant_mortality_rate", cfg.Pipeline.IndicatorColumn)
	assert.Equal(t, int64(42), cfg.Pipeline.Seed)
	assert.Empty(t, cfg.Paths.HealthFile)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "unknown outlier method",
			mutate:  func(c *Config) { c.Pipeline.OutlierMethod = "mad" },
			wantErr: true,
		},
		{
			name:    "non-positive outlier threshold",
			mutate:  func(c *Config) { c.Pipeline.OutlierThreshold = 0 },
			wantErr: true,
		},
		{
			name:    "health year out of range",
			mutate:  func(c *Config) { c.Pipeline.HealthYear = 1980 },
			wantErr: true,
		},
		{
			name:    "missing indicator column",
			mutate:  func(c *Config) { c.Pipeline.IndicatorColumn = "" },
			wantErr: true,
		},
		{
			name:    "missing data dir",
			mutate:  func(c *Config) { c.Paths.DataDir = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPathResolution(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = filepath.Join("/srv", "mch")

	assert.Equal(t, filepath.Join("/srv", "mch", "grants.csv"), cfg.GetGrantsPath())
	assert.Equal(t, filepath.Join("/srv", "mch", "reports", "report.json"), cfg.GetReportPath("report.json"))

	// Empty health file means the simulated provider is used.
	assert.Empty(t, cfg.GetHealthPath())
	cfg.Paths.HealthFile = "health.csv"
	assert.Equal(t, filepath.Join("/srv", "mch", "health.csv"), cfg.GetHealthPath())

	// Absolute paths pass through untouched.
	cfg.Paths.GrantsFile = "/data/grants.xlsx"
	assert.Equal(t, "/data/grants.xlsx", cfg.GetGrantsPath())
}
