// Package config provides configuration types and defaults for flowbar.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flowbrowser/flowbar/internal/log"
	"github.com/flowbrowser/flowbar/internal/tracing"
)

// Config holds all configuration options for flowbar.
type Config struct {
	// DBPath is the tabs database. Default: ~/.flowbar/tabs.db
	DBPath string `mapstructure:"db_path"`
	// Profile limits the sidebar to the spaces of one profile. Empty shows all.
	Profile string `mapstructure:"profile"`
	// Space is the space opened at startup. Saved on exit.
	Space string `mapstructure:"space"`

	AutoRefresh         bool          `mapstructure:"auto_refresh"`
	AutoRefreshDebounce time.Duration `mapstructure:"auto_refresh_debounce"`

	UI      UIConfig      `mapstructure:"ui"`
	Sleep   SleepConfig   `mapstructure:"sleep"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowModes     bool   `mapstructure:"show_modes"`     // mark split and glance groups
	TitleWidth    int    `mapstructure:"title_width"`    // 0 uses the full sidebar width
	ShowCounts    bool   `mapstructure:"show_counts"`    // tab counts in section headers
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light", for `tabs list`
}

// SleepConfig configures putting pinned tabs to sleep.
type SleepConfig struct {
	// NavigateDelay is how long a pinned tab loads its pinned URL before it sleeps.
	NavigateDelay time.Duration `mapstructure:"navigate_delay"`
}

// CacheConfig configures the tab list cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// TracingConfig holds distributed tracing settings.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Exporter is one of "none", "file", "stdout", "otlp".
	Exporter string `mapstructure:"exporter"`

	// FilePath is the JSONL output of the file exporter.
	// Default: ~/.config/flowbar/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate is between 0.0 and 1.0.
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Provider converts the settings for tracing.NewProvider.
func (t TracingConfig) Provider() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.Enabled = t.Enabled
	cfg.Exporter = t.Exporter
	cfg.FilePath = t.FilePath
	cfg.OTLPEndpoint = t.OTLPEndpoint
	cfg.SampleRate = t.SampleRate
	return cfg
}

// DefaultTracesFilePath returns ~/.config/flowbar/traces/traces.jsonl, or an
// empty string if the home dir is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "flowbar", "traces", "traces.jsonl")
}

// DefaultDBPath returns ~/.flowbar/tabs.db, or tabs.db in the working
// directory if the home dir is unavailable.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tabs.db"
	}
	return filepath.Join(home, ".flowbar", "tabs.db")
}

// Validate checks values that cannot be fixed up silently.
func (c Config) Validate() error {
	if c.AutoRefreshDebounce < 0 {
		return fmt.Errorf("auto_refresh_debounce must not be negative, got %s", c.AutoRefreshDebounce)
	}
	if c.UI.TitleWidth < 0 {
		return fmt.Errorf("ui.title_width must not be negative, got %d", c.UI.TitleWidth)
	}
	switch c.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", c.UI.MarkdownStyle)
	}
	if c.Sleep.NavigateDelay < 0 {
		return fmt.Errorf("sleep.navigate_delay must not be negative, got %s", c.Sleep.NavigateDelay)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled, got %s", c.Cache.TTL)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks the tracing section.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		DBPath:              DefaultDBPath(),
		AutoRefresh:         true,
		AutoRefreshDebounce: 200 * time.Millisecond,
		UI: UIConfig{
			ShowModes:     true,
			ShowCounts:    true,
			MarkdownStyle: "dark",
		},
		Sleep: SleepConfig{
			NavigateDelay: 150 * time.Millisecond,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     30 * time.Second,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultConfigTemplate returns the commented YAML written on first run.
func DefaultConfigTemplate() string {
	return `# flowbar configuration

# Tabs database (default: ~/.flowbar/tabs.db)
# db_path: ~/.flowbar/tabs.db

# Only show spaces of this profile (default: all profiles)
# profile: personal

# Space opened at startup. Updated when you quit.
# space: work

# Reload when another process writes the database
auto_refresh: true
auto_refresh_debounce: 200ms

ui:
  show_modes: true     # mark split and glance groups
  show_counts: true    # tab counts in section headers
  title_width: 0       # 0 uses the full sidebar width
  markdown_style: dark # dark or light, used by "flowbar tabs list"

# Putting a pinned tab to sleep sends it back to its pinned URL first
sleep:
  navigate_delay: 150ms

# Cache tab lists between redraws. Flushed on every change.
cache:
  enabled: false
  ttl: 30s

# Distributed tracing, one span per drop
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/flowbar/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
