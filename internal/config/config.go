package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix is the prefix for environment variable overrides (MCH_SERVER_PORT...).
const envPrefix = "MCH"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	GrantsFile string `yaml:"grants_file" envconfig:"GRANTS_FILE" validate:"required"`
	HealthFile string `yaml:"health_file" envconfig:"HEALTH_FILE"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
}

// PipelineConfig contains pipeline tuning parameters
type PipelineConfig struct {
	HealthYear       int     `yaml:"health_year" envconfig:"HEALTH_YEAR" validate:"min=1990,max=2100"`
	IndicatorColumn  string  `yaml:"indicator_column" envconfig:"INDICATOR_COLUMN" validate:"required"`
	OutlierMethod    string  `yaml:"outlier_method" envconfig:"OUTLIER_METHOD" validate:"oneof=iqr zscore"`
	OutlierThreshold float64 `yaml:"outlier_threshold" envconfig:"OUTLIER_THRESHOLD" validate:"gt=0"`
	Seed             int64   `yaml:"seed" envconfig:"SEED"`
}

// Load builds the configuration in three layers: defaults, then the optional
// config.yaml, then environment variables. Environment always wins because
// envconfig only touches fields whose variables are actually set.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := findConfigFile(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// GetGrantsPath returns the grants file resolved against the data directory.
func (c *Config) GetGrantsPath() string {
	return c.resolve(c.Paths.GrantsFile)
}

// GetHealthPath returns the health file resolved against the data directory,
// or empty when the simulated provider should be used instead.
func (c *Config) GetHealthPath() string {
	if c.Paths.HealthFile == "" {
		return ""
	}
	return c.resolve(c.Paths.HealthFile)
}

// GetReportPath returns an output file path under the reports directory.
func (c *Config) GetReportPath(name string) string {
	return filepath.Join(c.resolve(c.Paths.ReportsDir), name)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Paths.DataDir, path)
}

// EnsureReportsDir creates the output directory if needed.
func (c *Config) EnsureReportsDir() error {
	return os.MkdirAll(c.resolve(c.Paths.ReportsDir), 0755)
}

func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile checks common locations for a config file.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			GrantsFile: "grants.csv",
			HealthFile: "",
			ReportsDir: "reports",
		},
		Pipeline: PipelineConfig{
			HealthYear:       2021,
			IndicatorColumn:  "infant_mortality_rate",
			OutlierMethod:    "iqr",
			OutlierThreshold: 1.5,
			Seed:             42,
		},
	}
}
