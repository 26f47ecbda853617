// Package config loads the defaults for volume-control flags.
//
// Values are layered: built-in defaults, then the config file, then
// VOLUME_CONTROL_* environment variables. Command-line flags that are set
// explicitly win over all of them; that last step lives in the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides, e.g. VOLUME_CONTROL_STEPS=4.
const EnvPrefix = "VOLUME_CONTROL_"

// Config holds every setting a flag can also provide.
type Config struct {
	Application    bool    `koanf:"application"`
	Duration       float64 `koanf:"duration" validate:"gte=0"`
	Icon           string  `koanf:"icon" validate:"required"`
	IconMuted      string  `koanf:"icon_muted" validate:"required"`
	Title          string  `koanf:"title"`
	Steps          uint64  `koanf:"steps" validate:"min=1"`
	StepIntervalMS uint64  `koanf:"step_interval_ms"`
	StateDir       string  `koanf:"state_dir" validate:"required"`
	PactlCommand   string  `koanf:"pactl_command" validate:"required"`
	NotifyCommand  string  `koanf:"notify_command" validate:"required"`
}

// NotificationTimeout converts Duration (seconds) to a time.Duration.
func (c Config) NotificationTimeout() time.Duration {
	return time.Duration(c.Duration * float64(time.Second))
}

// StepInterval converts StepIntervalMS to a time.Duration.
func (c Config) StepInterval() time.Duration {
	return time.Duration(c.StepIntervalMS) * time.Millisecond
}

// Defaults returns the built-in configuration.
func Defaults() map[string]any {
	return map[string]any{
		"application":      false,
		"duration":         1.0,
		"icon":             "audio-volume-high",
		"icon_muted":       "audio-volume-muted",
		"title":            "Volume",
		"steps":            uint64(1),
		"step_interval_ms": uint64(0),
		"state_dir":        os.TempDir(),
		"pactl_command":    "pactl",
		"notify_command":   "notify-send",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/volume-control/config.json
// (~/.config/volume-control/config.json when unset).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "volume-control", "config.json")
}

// Load reads the configuration. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			parser, err := parserFor(path)
			if err != nil {
				return nil, err
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return nil, fmt.Errorf("failed to load config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.StateDir = expandHomePath(cfg.StateDir)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Parser(), nil
	case ".yaml", ".yml":
		return yamlParser{}, nil
	case ".toml":
		return tomlParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .json, .yaml or .toml)", filepath.Ext(path))
	}
}

// envTransform converts environment variable names to config keys
// Example: VOLUME_CONTROL_ICON_MUTED -> icon_muted
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
