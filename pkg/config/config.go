package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// S3Config holds the optional publish target
type S3Config struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

type Config struct {
	// Asset tree root; relative paths resolve against the working directory
	Root string `yaml:"root"`

	// Registration
	DuplicatePolicy string   `yaml:"duplicate_policy"`
	LockTimeoutMS   int      `yaml:"lock_timeout_ms"`
	DefaultSection  string   `yaml:"default_section"`
	DefaultTags     []string `yaml:"default_tags"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Inbox watcher
	Inbox           string `yaml:"inbox"`
	WatchDebounceMS int    `yaml:"watch_debounce_ms"`

	// Metrics textfile, written after each command when set
	MetricsFile string `yaml:"metrics_file"`

	// Publishing
	S3 S3Config `yaml:"s3"`

	// UI Settings
	ColorTheme        string `yaml:"color_theme"`
	DisplayDateFormat string `yaml:"display_date_format"`
	DefaultSort       string `yaml:"default_sort"`
	ReverseSort       bool   `yaml:"reverse_sort"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		Root:              "assets",
		DuplicatePolicy:   "overwrite",
		LockTimeoutMS:     10000,
		DefaultSection:    "",
		DefaultTags:       []string{},
		LogLevel:          "warn",
		LogFormat:         "console",
		Inbox:             "",
		WatchDebounceMS:   500,
		MetricsFile:       "",
		ColorTheme:        "auto",
		DisplayDateFormat: "2006-01-02 15:04",
		DefaultSort:       "",
		ReverseSort:       false,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.DefaultTags == nil {
		cfg.DefaultTags = []string{}
	}

	// Apply defaults for essential values if missing
	if strings.TrimSpace(cfg.Root) == "" {
		cfg.Root = "assets"
	}
	if cfg.DuplicatePolicy == "" {
		cfg.DuplicatePolicy = "overwrite"
	}
	if cfg.LockTimeoutMS <= 0 {
		cfg.LockTimeoutMS = 10000
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if !isValidLogFormat(cfg.LogFormat) {
		cfg.LogFormat = "console"
	}
	if cfg.DisplayDateFormat == "" {
		cfg.DisplayDateFormat = "2006-01-02 15:04"
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// InboxPath returns the watched inbox, defaulting to <root>/inbox
func (c *Config) InboxPath(root string) string {
	if c.Inbox != "" {
		return c.Inbox
	}
	return filepath.Join(root, "inbox")
}

func isValidLogFormat(format string) bool {
	return format == "console" || format == "json"
}
