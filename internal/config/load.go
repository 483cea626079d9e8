package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjrosen/chime/internal/paths"
)

// EnvPrefix prefixes environment overrides, e.g. CHIME_SOUND_BASE_URL.
const EnvPrefix = "CHIME"

// LocalConfigPath is the project-local config file written by `chime init`.
const LocalConfigPath = ".chime/config.yaml"

// Load reads configuration. An explicit path must exist. Otherwise
// .chime/config.yaml (following a redirect) and then
// $XDG_CONFIG_HOME/chime/config.yaml are tried, and a missing file leaves
// the defaults in place. It returns the file used, empty when none was found.
func Load(path string) (Config, string, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(paths.ResolveChimeDir("."))
		if dir := paths.UserConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, v.ConfigFileUsed(), nil
}

// setDefaults registers every key so environment overrides apply even when
// no file mentions them.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("sound.manifest", d.Sound.Manifest)
	v.SetDefault("sound.base_url", d.Sound.BaseURL)
	v.SetDefault("sound.asset_dir", d.Sound.AssetDir)
	v.SetDefault("sound.default_volume", d.Sound.DefaultVolume)
	v.SetDefault("sound.sample_rate", d.Sound.SampleRate)
	v.SetDefault("sound.fetch_timeout", d.Sound.FetchTimeout)
	v.SetDefault("sound.cache_ttl", d.Sound.CacheTTL)
	v.SetDefault("story.vars_file", d.Story.VarsFile)
	v.SetDefault("story.toggle_variable", d.Story.ToggleVariable)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
}
