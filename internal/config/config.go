package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Renderer selects how pages are loaded.
const (
	// RendererDynamic drives a real browser and sees script-inserted
	// content.
	RendererDynamic = "dynamic"

	// RendererStatic fetches raw HTML over plain HTTP.
	RendererStatic = "static"
)

// defaultUserAgent is sent on page loads and link probes.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables.
type Config struct {
	// Websites are the page URLs monitored each run, in order.
	Websites []string `mapstructure:"websites"`

	Renderer    string `mapstructure:"renderer"`
	BrowserPath string `mapstructure:"browser_path"`
	UserAgent   string `mapstructure:"user_agent"`

	PageLoadTimeoutMS int     `mapstructure:"page_load_timeout_ms"`
	LinkTestTimeoutMS int     `mapstructure:"link_test_timeout_ms"`
	MaxWorkers        int     `mapstructure:"max_workers"`
	ProbeRateLimit    float64 `mapstructure:"probe_rate_limit"`

	MaxLinksPerPage  int `mapstructure:"max_links_per_page"`
	MaxImagesPerPage int `mapstructure:"max_images_per_page"`

	OutputDir    string `mapstructure:"output_dir"`
	BadgerDBPath string `mapstructure:"badgerdb_path"`
	ListenAddr   string `mapstructure:"listen_addr"`

	TelegramBotToken string `mapstructure:"telegram_bot_token"`
	TelegramChatID   string `mapstructure:"telegram_chat_id"`

	LogLevel string `mapstructure:"log_level"`
}

// LoadConfig reads configuration from file or environment variables.
// It looks for config.yaml in the given directory; a missing file is not
// an error since defaults and environment variables still apply.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Register every key with its default so environment overrides are
	// picked up during Unmarshal.
	v.SetDefault("websites", []string{})
	v.SetDefault("renderer", RendererDynamic)
	v.SetDefault("browser_path", "")
	v.SetDefault("user_agent", defaultUserAgent)
	v.SetDefault("page_load_timeout_ms", 20000)
	v.SetDefault("link_test_timeout_ms", 5000)
	v.SetDefault("max_workers", 5)
	v.SetDefault("probe_rate_limit", 0)
	v.SetDefault("max_links_per_page", 100)
	v.SetDefault("max_images_per_page", 50)
	v.SetDefault("output_dir", ".")
	v.SetDefault("badgerdb_path", "./badger_data")
	v.SetDefault("listen_addr", "127.0.0.1:5000")
	v.SetDefault("telegram_bot_token", "")
	v.SetDefault("telegram_chat_id", "")
	v.SetDefault("log_level", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the monitor cannot run with.
func (c Config) Validate() error {
	if len(c.Websites) == 0 {
		return fmt.Errorf("at least one website must be configured")
	}
	if c.Renderer != RendererDynamic && c.Renderer != RendererStatic {
		return fmt.Errorf("renderer must be %q or %q, got %q", RendererDynamic, RendererStatic, c.Renderer)
	}
	if c.PageLoadTimeoutMS <= 0 {
		return fmt.Errorf("page_load_timeout_ms must be positive")
	}
	if c.LinkTestTimeoutMS <= 0 {
		return fmt.Errorf("link_test_timeout_ms must be positive")
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1")
	}
	if c.ProbeRateLimit < 0 {
		return fmt.Errorf("probe_rate_limit cannot be negative")
	}
	if c.MaxLinksPerPage < 1 {
		return fmt.Errorf("max_links_per_page must be at least 1")
	}
	if c.MaxImagesPerPage < 1 {
		return fmt.Errorf("max_images_per_page must be at least 1")
	}
	return nil
}

// PageLoadTimeout is the page load budget as a duration.
func (c Config) PageLoadTimeout() time.Duration {
	return time.Duration(c.PageLoadTimeoutMS) * time.Millisecond
}

// LinkTestTimeout is the per-probe budget as a duration.
func (c Config) LinkTestTimeout() time.Duration {
	return time.Duration(c.LinkTestTimeoutMS) * time.Millisecond
}
