// Package config loads game settings from an optional YAML file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. STRONGHOLD_SAVE_DIR.
const EnvPrefix = "STRONGHOLD"

// Config holds the application configuration.
type Config struct {
	SaveDir       string `mapstructure:"save_dir"`
	MapSize       int    `mapstructure:"map_size"`
	KingdomName   string `mapstructure:"kingdom_name"`
	Seed          uint64 `mapstructure:"seed"`
	LogLevel      string `mapstructure:"log_level"`
	LogFile       string `mapstructure:"log_file"`
	ChroniclePath string `mapstructure:"chronicle_path"`
	GeminiAPIKey  string `mapstructure:"gemini_api_key"`
	GeminiModel   string `mapstructure:"gemini_model"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	return Config{
		SaveDir:       ".saves",
		MapSize:       10,
		KingdomName:   "Stronghold",
		LogLevel:      "info",
		LogFile:       filepath.Join(".saves", "stronghold.log"),
		ChroniclePath: filepath.Join(".saves", "chronicle.db"),
		GeminiModel:   "gemini-2.5-flash",
	}
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"save-dir":  "save_dir",
	"map-size":  "map_size",
	"name":      "kingdom_name",
	"seed":      "seed",
	"log-level": "log_level",
	"log-file":  "log_file",
	"chronicle": "chronicle_path",
	"model":     "gemini_model",
}

// Load resolves the configuration. path may be empty, in which case only
// defaults, environment and flags apply. flags may be nil; flags the user
// did not set do not override other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("save_dir", d.SaveDir)
	v.SetDefault("map_size", d.MapSize)
	v.SetDefault("kingdom_name", d.KingdomName)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("chronicle_path", d.ChroniclePath)
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", d.GeminiModel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// The Gemini key is commonly exported without the game prefix.
	if err := v.BindEnv("gemini_api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var (
	ErrNoSaveDir  = errors.New("save directory must not be empty")
	ErrBadMapSize = errors.New("map size out of range")
)

// Validate rejects settings the game cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SaveDir) == "" {
		return ErrNoSaveDir
	}
	if c.MapSize < 3 || c.MapSize > 32 {
		return fmt.Errorf("map size %d: %w", c.MapSize, ErrBadMapSize)
	}
	return nil
}

// HasGemini reports whether narration and the AI-driven test harness can
// reach the model.
func (c *Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}
