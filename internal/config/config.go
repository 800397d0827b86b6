package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Import   ImportConfig   `yaml:"import" envconfig:"IMPORT"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/import.log"`
}

// PathsConfig contains file system paths configuration. Relative paths are
// resolved against the working directory.
type PathsConfig struct {
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	StatementsDir string `yaml:"statements_dir" envconfig:"STATEMENTS_DIR" default:"data/statements"`
	ProcessedDir  string `yaml:"processed_dir" envconfig:"PROCESSED_DIR" default:"data/processed"`
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// ImportConfig contains statement-import configuration
type ImportConfig struct {
	BaseCurrency   string `yaml:"base_currency" envconfig:"BASE_CURRENCY" default:"CHF" validate:"len=3,uppercase"`
	DefaultProfile string `yaml:"default_profile" envconfig:"DEFAULT_PROFILE" default:"zkb-csv" validate:"required"`
}

// DatabaseConfig contains SQLite configuration
type DatabaseConfig struct {
	Path string `yaml:"path" envconfig:"PATH" default:"data/portfolio.db" validate:"required"`
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("PORTO", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. A field set through the
// environment wins; fields the environment left at their envconfig default
// fall back to the file value when the file provides one.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig

	if v := os.Getenv("PORTO_LOGGING_LEVEL"); v == "" && fileConfig.Logging.Level != "" {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if v := os.Getenv("PORTO_LOGGING_FORMAT"); v == "" && fileConfig.Logging.Format != "" {
		merged.Logging.Format = fileConfig.Logging.Format
	}
	if v := os.Getenv("PORTO_LOGGING_OUTPUT"); v == "" && fileConfig.Logging.Output != "" {
		merged.Logging.Output = fileConfig.Logging.Output
	}
	if v := os.Getenv("PORTO_LOGGING_FILE_PATH"); v == "" && fileConfig.Logging.FilePath != "" {
		merged.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if v := os.Getenv("PORTO_PATHS_DATA_DIR"); v == "" && fileConfig.Paths.DataDir != "" {
		merged.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if v := os.Getenv("PORTO_PATHS_STATEMENTS_DIR"); v == "" && fileConfig.Paths.StatementsDir != "" {
		merged.Paths.StatementsDir = fileConfig.Paths.StatementsDir
	}
	if v := os.Getenv("PORTO_PATHS_PROCESSED_DIR"); v == "" && fileConfig.Paths.ProcessedDir != "" {
		merged.Paths.ProcessedDir = fileConfig.Paths.ProcessedDir
	}
	if v := os.Getenv("PORTO_PATHS_REPORTS_DIR"); v == "" && fileConfig.Paths.ReportsDir != "" {
		merged.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if v := os.Getenv("PORTO_PATHS_LOGS_DIR"); v == "" && fileConfig.Paths.LogsDir != "" {
		merged.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if v := os.Getenv("PORTO_IMPORT_BASE_CURRENCY"); v == "" && fileConfig.Import.BaseCurrency != "" {
		merged.Import.BaseCurrency = fileConfig.Import.BaseCurrency
	}
	if v := os.Getenv("PORTO_IMPORT_DEFAULT_PROFILE"); v == "" && fileConfig.Import.DefaultProfile != "" {
		merged.Import.DefaultProfile = fileConfig.Import.DefaultProfile
	}
	if v := os.Getenv("PORTO_DATABASE_PATH"); v == "" && fileConfig.Database.Path != "" {
		merged.Database.Path = fileConfig.Database.Path
	}

	return merged
}

// validate validates the configuration using struct tags
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/import.log",
		},
		Paths: PathsConfig{
			DataDir:       "data",
			StatementsDir: "data/statements",
			ProcessedDir:  "data/processed",
			ReportsDir:    "data/reports",
			LogsDir:       "logs",
		},
		Import: ImportConfig{
			BaseCurrency:   "CHF",
			DefaultProfile: "zkb-csv",
		},
		Database: DatabaseConfig{
			Path: "data/portfolio.db",
		},
	}
}
