// Package config provides configuration management for the search engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Engine    EngineConfig    `mapstructure:"engine"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// EngineConfig holds the game parameters and search-wide constants.
type EngineConfig struct {
	Bins              int `mapstructure:"bins"`
	R                 int `mapstructure:"r"`
	S                 int `mapstructure:"s"`
	Monotonicity      int `mapstructure:"monotonicity"`
	MinibsDenominator int `mapstructure:"minibs_denominator"`
	TaskLoadInit      int `mapstructure:"task_load_init"`
	TaskDepthInit     int `mapstructure:"task_depth_init"`
	RegrowLimit       int `mapstructure:"regrow_limit"`
}

// DatabaseConfig holds database connection configuration for the search-run
// history repository.
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // sqlite, postgres, or mysql
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds object storage configuration for the minibs binary
// cache.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`     // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"`     // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"` // for local storage

	// Compression selects the codec objects are stored under: "zstd"
	// (default), "gzip", or "none". Empty defaults to zstd.
	Compression string `mapstructure:"compression"`
}

// SchedulerConfig holds queen/overseer/worker scheduling configuration.
type SchedulerConfig struct {
	WorkerCount    int `mapstructure:"worker_count"`
	BatchSize      int `mapstructure:"batch_size"`
	BatchThreshold int `mapstructure:"batch_threshold"`
	TickSleepMs    int `mapstructure:"tick_sleep_ms"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// TelemetryConfig holds OpenTelemetry tracing configuration.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Determine config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/binstretch-search")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Check if it's a "file not found" error (either viper's type or os error)
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			// File specified but doesn't exist, use defaults
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow environment variables to override config
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw bytes (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Engine defaults (m=3, R=19, S=14 is the original's worked example)
	v.SetDefault("engine.bins", 3)
	v.SetDefault("engine.r", 19)
	v.SetDefault("engine.s", 14)
	v.SetDefault("engine.monotonicity", 13)
	v.SetDefault("engine.minibs_denominator", 12)
	v.SetDefault("engine.task_load_init", 15)
	v.SetDefault("engine.task_depth_init", 10)
	v.SetDefault("engine.regrow_limit", 3)

	// Scheduler defaults
	v.SetDefault("scheduler.worker_count", 0) // 0 => runtime.NumCPU()
	v.SetDefault("scheduler.batch_size", 50)
	v.SetDefault("scheduler.batch_threshold", 25)
	v.SetDefault("scheduler.tick_sleep_ms", 20)

	// Storage defaults
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./data/minibs")

	// Database defaults
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.database", "./data/binstretch.db")
	v.SetDefault("database.max_conns", 10)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.Bins < 1 {
		return fmt.Errorf("engine.bins must be at least 1")
	}
	if c.Engine.S < 1 || c.Engine.R <= c.Engine.S {
		return fmt.Errorf("engine.r must be greater than engine.s (got r=%d, s=%d)", c.Engine.R, c.Engine.S)
	}
	if c.Engine.MinibsDenominator < 1 {
		return fmt.Errorf("engine.minibs_denominator must be at least 1")
	}

	switch c.Database.Type {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if c.Scheduler.BatchThreshold > c.Scheduler.BatchSize {
		return fmt.Errorf("scheduler.batch_threshold must not exceed scheduler.batch_size")
	}

	// Storage config validation is delegated to the storage package.

	return nil
}

// EnsureStorageDir creates the local minibs cache directory if it doesn't exist.
func (c *Config) EnsureStorageDir() error {
	if c.Storage.LocalPath == "" {
		return nil
	}
	return os.MkdirAll(c.Storage.LocalPath, 0755)
}

// MinibsCachePath returns the path to the binary minibs cache file for the
// current engine parameters, rooted under the configured storage directory.
func (c *Config) MinibsCachePath() string {
	name := fmt.Sprintf("minibs-m%d-r%d-s%d-d%d.bin",
		c.Engine.Bins, c.Engine.R, c.Engine.S, c.Engine.MinibsDenominator)
	return filepath.Join(c.Storage.LocalPath, name)
}
