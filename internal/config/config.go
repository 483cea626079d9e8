// Package config provides configuration types and defaults for chime.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration options for chime.
type Config struct {
	Sound   SoundConfig   `mapstructure:"sound"`
	Story   StoryConfig   `mapstructure:"story"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// SoundConfig controls asset discovery and playback.
type SoundConfig struct {
	// Manifest is the location of the manifest document, relative to
	// BaseURL when set, otherwise relative to AssetDir.
	Manifest string `mapstructure:"manifest"`

	// BaseURL fetches assets over HTTP when non-empty.
	BaseURL string `mapstructure:"base_url"`

	// AssetDir is the filesystem root used when BaseURL is empty.
	AssetDir string `mapstructure:"asset_dir"`

	DefaultVolume float64       `mapstructure:"default_volume"`
	SampleRate    int           `mapstructure:"sample_rate"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"` // 0 disables the timeout
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`     // in-session byte cache; 0 disables
}

// StoryConfig describes the story variable store consulted by the click gateway.
type StoryConfig struct {
	VarsFile       string `mapstructure:"vars_file"`
	ToggleVariable string `mapstructure:"toggle_variable"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// TracingConfig selects the span exporter.
type TracingConfig struct {
	// Exporter is one of "none", "stdout", "otlp".
	Exporter string `mapstructure:"exporter"`
	Endpoint string `mapstructure:"endpoint"` // otlp gRPC endpoint, e.g. localhost:4317
}

// DefaultToggleVariable is the story variable that enables sounds on every button.
const DefaultToggleVariable = "applySfxToAllButtons"

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Sound: SoundConfig{
			Manifest:      "scripts/assetList.yaml",
			AssetDir:      ".",
			DefaultVolume: 0.5,
			SampleRate:    44100,
			CacheTTL:      10 * time.Minute,
		},
		Story: StoryConfig{
			ToggleVariable: DefaultToggleVariable,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Tracing: TracingConfig{
			Exporter: "none",
		},
	}
}

// Validate checks configuration for errors.
func (c Config) Validate() error {
	if c.Sound.Manifest == "" {
		return fmt.Errorf("sound.manifest is required")
	}
	if c.Sound.DefaultVolume < 0 || c.Sound.DefaultVolume > 1 {
		return fmt.Errorf("sound.default_volume must be between 0 and 1, got %v", c.Sound.DefaultVolume)
	}
	if c.Sound.SampleRate <= 0 {
		return fmt.Errorf("sound.sample_rate must be positive, got %d", c.Sound.SampleRate)
	}
	if c.Sound.FetchTimeout < 0 {
		return fmt.Errorf("sound.fetch_timeout must not be negative")
	}
	if c.Story.ToggleVariable == "" {
		return fmt.Errorf("story.toggle_variable is required")
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format: unsupported value %q", c.Log.Format)
	}
	switch c.Tracing.Exporter {
	case "", "none", "stdout":
	case "otlp":
		if c.Tracing.Endpoint == "" {
			return fmt.Errorf("tracing.endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("tracing.exporter: unsupported value %q", c.Tracing.Exporter)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Chime Configuration

sound:
  # Manifest listing descriptor documents (assetList: [...]).
  manifest: scripts/assetList.yaml

  # Fetch assets over HTTP instead of from asset_dir.
  # base_url: https://example.com/story/

  # Filesystem root for manifest, descriptors and audio files.
  asset_dir: .

  # Volume applied to every preset once it has loaded (0.0 - 1.0).
  default_volume: 0.5

  sample_rate: 44100

  # 0 waits forever, matching browser behaviour.
  fetch_timeout: 0s

  # Keep fetched bytes for one-off sounds in memory for this long.
  cache_ttl: 10m

story:
  # YAML file with story variables; reloaded on change.
  # vars_file: story-vars.yaml

  # Boolean variable that enables sounds on every button and link.
  toggle_variable: applySfxToAllButtons

log:
  level: info      # debug, info, warn, error
  format: console  # console or json
  # file: ~/.chime/chime.log

tracing:
  exporter: none   # none, stdout, otlp
  # endpoint: localhost:4317
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
