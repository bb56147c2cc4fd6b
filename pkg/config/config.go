package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/username/estatechat/internal/pkg/configutil"
	"github.com/username/estatechat/internal/pkg/constants"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Search    SearchConfig    `mapstructure:"search"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Host        string `mapstructure:"host"`
	CORSEnabled bool   `mapstructure:"cors_enabled"`
}

// StorageConfig holds persistent store configuration
type StorageConfig struct {
	Driver         string `mapstructure:"driver"` // "sqlite" or "memory"
	Path           string `mapstructure:"path"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// AssistantConfig holds remote chat endpoint configuration
type AssistantConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SearchConfig holds third-party search API configuration. The search path is
// opportunistic: missing credentials disable it without disabling the bot.
type SearchConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	CX         string        `mapstructure:"cx"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxResults int           `mapstructure:"max_results"`
}

// DispatchConfig holds message dispatch behavior configuration
type DispatchConfig struct {
	// DedupFollowUps filters follow-up question candidates against the
	// questions already asked in a conversation. Off by default.
	DedupFollowUps bool `mapstructure:"dedup_follow_ups"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			CORSEnabled: true,
		},
		Storage: StorageConfig{
			Driver:         "sqlite",
			Path:           "./data/estatechat.db",
			MigrationsPath: "./internal/adapters/storage/sqlite/migrations",
		},
		Assistant: AssistantConfig{
			BaseURL: "http://localhost:3000",
			Timeout: 30 * time.Second,
		},
		Search: SearchConfig{
			BaseURL:    "https://www.googleapis.com/customsearch/v1",
			Timeout:    5 * time.Second,
			MaxResults: 5,
		},
		Dispatch: DispatchConfig{
			DedupFollowUps: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from files and environment variables
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./deployments/config")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ESTATECHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay, we'll use defaults + env vars
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	v := configutil.NewValidator()

	v.IntRange("server.port", c.Server.Port, 1, 65535)
	v.OneOf("storage.driver", c.Storage.Driver, []string{"sqlite", "memory"})
	if c.Storage.Driver == "sqlite" {
		v.ValidateFilePath("storage.path", c.Storage.Path)
		v.ValidateFilePath("storage.migrations_path", c.Storage.MigrationsPath)
	}
	v.RequiredString("assistant.base_url", c.Assistant.BaseURL)
	v.ValidateURL("assistant.base_url", c.Assistant.BaseURL)
	v.RequiredDuration("assistant.timeout", c.Assistant.Timeout)
	v.ValidateURL("search.base_url", c.Search.BaseURL)
	v.RequiredDuration("search.timeout", c.Search.Timeout)
	v.IntRange("search.max_results", c.Search.MaxResults, 1, constants.MaxSearchResults)
	v.OneOf("logging.level", c.Logging.Level, []string{"debug", "info", "warn", "error"})

	return v.Result()
}

// SearchEnabled reports whether search credentials are configured.
func (c *Config) SearchEnabled() bool {
	return c.Search.APIKey != "" && c.Search.CX != ""
}
