package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Lists   ListsConfig   `mapstructure:"lists"`
	Billing BillingConfig `mapstructure:"billing"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds reservation backend connection settings.
type ServerConfig struct {
	URL   string `mapstructure:"url"`    // REST base URL
	WSURL string `mapstructure:"ws_url"` // push channel URL; derived from URL when empty
	Token string `mapstructure:"token"`
}

// ListsConfig tunes the synchronized list stores.
type ListsConfig struct {
	PageSize          int `mapstructure:"page_size"`
	MinQueryLen       int `mapstructure:"min_query_len"`
	SearchDebounceMS  int `mapstructure:"search_debounce_ms"`
	RefreshIntervalS  int `mapstructure:"refresh_interval_s"` // background silent refresh cadence
	SummaryCacheTTLMS int `mapstructure:"summary_cache_ttl_ms"`
}

// BillingConfig holds the default rates used when quoting a stay.
type BillingConfig struct {
	VATPct             float64 `mapstructure:"vat_pct"`
	DefaultDiscountPct float64 `mapstructure:"default_discount_pct"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{},
		Lists: ListsConfig{
			PageSize:          20,
			MinQueryLen:       2,
			SearchDebounceMS:  400,
			RefreshIntervalS:  120,
			SummaryCacheTTLMS: 30000,
		},
		Billing: BillingConfig{
			VATPct: 15,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "frontdesk", "frontdesk.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "frontdesk", "frontdesk.log")
	}
}

func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "frontdesk")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "frontdesk")
	}
}

// DefaultSnapshotPath returns the directory for session snapshot caches.
func DefaultSnapshotPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "frontdesk", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "frontdesk", "cache")
	}
}

// LoadConfig loads configuration from file and environment.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("FRONTDESK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults apply.
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the default config file.
func Save(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.ws_url", cfg.Server.WSURL)
	viper.Set("server.token", cfg.Server.Token)

	viper.Set("lists.page_size", cfg.Lists.PageSize)
	viper.Set("lists.min_query_len", cfg.Lists.MinQueryLen)
	viper.Set("lists.search_debounce_ms", cfg.Lists.SearchDebounceMS)
	viper.Set("lists.refresh_interval_s", cfg.Lists.RefreshIntervalS)
	viper.Set("lists.summary_cache_ttl_ms", cfg.Lists.SummaryCacheTTLMS)

	viper.Set("billing.vat_pct", cfg.Billing.VATPct)
	viper.Set("billing.default_discount_pct", cfg.Billing.DefaultDiscountPct)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveToken updates just the token in the configuration file.
func SaveToken(token string) error {
	viper.Set("server.token", token)

	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true when the backend URL and token are set.
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != ""
}
