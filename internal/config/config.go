// Package config provides configuration management for the journal service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Bot     BotConfig     `mapstructure:"bot"`
	Health  HealthConfig  `mapstructure:"health"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StorageConfig holds ledger persistence configuration.
type StorageConfig struct {
	// DataFile is the JSON ledger document, read at startup and rewritten
	// on every mutation.
	DataFile string `mapstructure:"data_file"`
}

// BotConfig holds chat front-end configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
	// AdminIDs are the chat account ids allowed to run the global reset.
	AdminIDs []int64 `mapstructure:"admin_ids"`
}

// HealthConfig holds the liveness endpoint configuration.
type HealthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
	Path    string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trade-journal"
	}
	return filepath.Join(home, ".config", "trade-journal")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used. A `.env` file in the working
// directory is honored before environment overrides are applied.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := defaults(configDir)
	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func defaults(configDir string) *Config {
	return &Config{
		Storage: StorageConfig{
			DataFile: filepath.Join(configDir, "trading_data.json"),
		},
		Health: HealthConfig{
			Enabled: true,
			Addr:    ":8080",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    true,
			Path:    filepath.Join(configDir, "logs", "journal.log"),
		},
	}
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir)
		}
		return err
	}

	return v.Unmarshal(target)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("JOURNAL_ADMIN_IDS"); v != "" {
		var ids []int64
		for _, part := range strings.Split(v, ",") {
			if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			cfg.Bot.AdminIDs = ids
		}
	}
	if v := os.Getenv("JOURNAL_DATA_FILE"); v != "" {
		cfg.Storage.DataFile = v
	}
	if v := os.Getenv("JOURNAL_HEALTH_ADDR"); v != "" {
		cfg.Health.Addr = v
	}
	if v := os.Getenv("JOURNAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Storage.DataFile == "" {
		return fmt.Errorf("storage.data_file must not be empty")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Health.Enabled && c.Health.Addr == "" {
		return fmt.Errorf("health.addr required when health endpoint is enabled")
	}
	return nil
}

// IsAdmin reports whether the given chat account id may run privileged
// operations.
func (c *Config) IsAdmin(senderID int64) bool {
	for _, id := range c.Bot.AdminIDs {
		if id == senderID {
			return true
		}
	}
	return false
}
