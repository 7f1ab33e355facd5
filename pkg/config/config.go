package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Veraticus/sniffnotify/pkg/notification"
	"github.com/Veraticus/sniffnotify/pkg/sniff"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for sniffnotify
type Config struct {
	Notifier NotifierConfig `yaml:"notifier"`
	Sniff    SniffConfig    `yaml:"sniff"`

	// Extra surfaces mirrored onto the notifier's target surface
	Console    bool          `yaml:"console" env:"SNIFFNOTIFY_CONSOLE"`
	Desktop    DesktopConfig `yaml:"desktop"`
	NtfyTopic  string        `yaml:"ntfy_topic" env:"SNIFFNOTIFY_NTFY_TOPIC"`
	NtfyServer string        `yaml:"ntfy_server" env:"SNIFFNOTIFY_NTFY_SERVER"`

	// Rate limiting for remote and desktop surfaces
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Quiet disables the notifier entirely
	Quiet bool `yaml:"quiet" env:"SNIFFNOTIFY_QUIET"`
}

// NotifierConfig holds the periodic notifier settings.
type NotifierConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval" env:"SNIFFNOTIFY_INTERVAL"`
	Surface  string        `yaml:"surface" env:"SNIFFNOTIFY_SURFACE"`
	Event    string        `yaml:"event"`
	Message  string        `yaml:"message" env:"SNIFFNOTIFY_MESSAGE"`
}

// SniffConfig holds content sniffing settings.
type SniffConfig struct {
	HeaderSize int `yaml:"header_size" env:"SNIFFNOTIFY_HEADER_SIZE"`
}

// DesktopConfig holds native desktop notification settings.
type DesktopConfig struct {
	Enabled bool   `yaml:"enabled" env:"SNIFFNOTIFY_DESKTOP"`
	Title   string `yaml:"title"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Window      time.Duration `yaml:"window"`
	MaxMessages int           `yaml:"max_messages"`
}

// maxHeaderSize caps how much of a file is read for sniffing.
const maxHeaderSize = 1 << 20

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Notifier: NotifierConfig{
			Enabled:  true,
			Interval: notification.DefaultInterval,
			Surface:  notification.DefaultSurface,
			Event:    notification.DefaultEvent,
			Message:  notification.DefaultText,
		},
		Sniff: SniffConfig{
			HeaderSize: sniff.DefaultHeaderSize,
		},
		Desktop: DesktopConfig{
			Title: "sniffnotify",
		},
		NtfyServer: "https://ntfy.sh",
		RateLimit: RateLimitConfig{
			Window:      1 * time.Minute,
			MaxMessages: 5,
		},
	}
}

// NotificationConfig converts the notifier section for notification.New.
func (c *Config) NotificationConfig() notification.Config {
	return notification.Config{
		Interval: c.Notifier.Interval,
		Surface:  c.Notifier.Surface,
		Event:    c.Notifier.Event,
		Text:     c.Notifier.Message,
	}
}

// NotifierEnabled reports whether the periodic notifier should run.
func (c *Config) NotifierEnabled() bool {
	return c.Notifier.Enabled && !c.Quiet
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile loads configuration from path (if it exists) and environment.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Path returns the config file path
func Path() string {
	if path := os.Getenv("SNIFFNOTIFY_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "sniffnotify", "config.yaml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "sniffnotify", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if interval := os.Getenv("SNIFFNOTIFY_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid SNIFFNOTIFY_INTERVAL: %w", err)
		}
		cfg.Notifier.Interval = d
	}

	if surface := os.Getenv("SNIFFNOTIFY_SURFACE"); surface != "" {
		cfg.Notifier.Surface = surface
	}

	if message := os.Getenv("SNIFFNOTIFY_MESSAGE"); message != "" {
		cfg.Notifier.Message = message
	}

	if size := os.Getenv("SNIFFNOTIFY_HEADER_SIZE"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			return fmt.Errorf("invalid SNIFFNOTIFY_HEADER_SIZE: %w", err)
		}
		cfg.Sniff.HeaderSize = n
	}

	if topic := os.Getenv("SNIFFNOTIFY_NTFY_TOPIC"); topic != "" {
		cfg.NtfyTopic = topic
	}

	if server := os.Getenv("SNIFFNOTIFY_NTFY_SERVER"); server != "" {
		cfg.NtfyServer = server
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"SNIFFNOTIFY_QUIET", &cfg.Quiet},
		{"SNIFFNOTIFY_DESKTOP", &cfg.Desktop.Enabled},
		{"SNIFFNOTIFY_CONSOLE", &cfg.Console},
	}
	for _, b := range bools {
		if err := parseBoolEnv(b.name, b.dst); err != nil {
			return err
		}
	}

	return nil
}

func parseBoolEnv(name string, dst *bool) error {
	v := os.Getenv(name)
	switch v {
	case "":
	case "true", "1", "yes":
		*dst = true
	case "false", "0", "no":
		*dst = false
	default:
		return fmt.Errorf("invalid %s value: %q (use true/false)", name, v)
	}
	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.Notifier.Interval <= 0 {
		return fmt.Errorf("notifier.interval must be positive")
	}

	if cfg.Notifier.Surface == "" {
		return fmt.Errorf("notifier.surface is required")
	}

	if cfg.Notifier.Event == "" {
		return fmt.Errorf("notifier.event is required")
	}

	if cfg.Sniff.HeaderSize < sniff.MinHeaderSize || cfg.Sniff.HeaderSize > maxHeaderSize {
		return fmt.Errorf("sniff.header_size must be between %d and %d", sniff.MinHeaderSize, maxHeaderSize)
	}

	if cfg.NtfyTopic != "" && cfg.NtfyServer == "" {
		return fmt.Errorf("ntfy_server is required when ntfy_topic is set")
	}

	if cfg.RateLimit.MaxMessages < 0 {
		return fmt.Errorf("rate_limit.max_messages must be non-negative")
	}

	if cfg.RateLimit.Window < 0 {
		return fmt.Errorf("rate_limit.window must be non-negative")
	}

	return nil
}
