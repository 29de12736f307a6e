package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverSQLite = "sqlite"
	DriverYAML   = "yaml"
)

type Config struct {
	Env       string          `yaml:"env" env:"PUNCH_ENV" env-default:"local"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Tray      TrayConfig      `yaml:"tray"`
	Selection SelectionConfig `yaml:"selection"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" env:"PUNCH_STORAGE_DRIVER" env-default:"sqlite" env-description:"sqlite or yaml"`
	Path   string `yaml:"path" env:"PUNCH_STORAGE_PATH" env-description:"database or yaml file; defaults under the user config dir"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"PUNCH_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"PUNCH_LOG_FORMAT" env-default:"console" env-description:"json or console"`
}

type ServerConfig struct {
	Enabled bool `yaml:"enabled" env:"PUNCH_SERVER_ENABLED"`
	Port    int  `yaml:"port" env:"PUNCH_SERVER_PORT" env-default:"8765"`
}

type TrayConfig struct {
	Enabled     bool `yaml:"enabled" env:"PUNCH_TRAY_ENABLED"`
	MaxProjects int  `yaml:"max_projects" env:"PUNCH_TRAY_MAX_PROJECTS" env-default:"15"`
}

type SelectionConfig struct {
	// AllowClosed lets closed projects be selected. Punching into them is
	// still refused.
	AllowClosed bool `yaml:"allow_closed" env:"PUNCH_SELECTION_ALLOW_CLOSED"`
}

// LoadConfig reads path when it exists, then applies environment overrides.
// A missing file is not an error: environment and defaults are used instead.
func LoadConfig(path string) (*Config, error) {
	// cleanenv treats false as unset, so true defaults are seeded here
	// instead of through env-default.
	cfg := Config{
		Server: ServerConfig{Enabled: true},
		Tray:   TrayConfig{Enabled: true},
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		} else if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.Storage.Path == "" {
		path, err := defaultStoragePath(cfg.Storage.Driver)
		if err != nil {
			return nil, err
		}
		cfg.Storage.Path = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values cleanenv cannot constrain on its own.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverYAML:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Tray.MaxProjects < 1 {
		return fmt.Errorf("tray.max_projects must be positive, got %d", c.Tray.MaxProjects)
	}
	return nil
}

// Usage describes the environment variables understood by LoadConfig.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}

func defaultStoragePath(driver string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	name := "punch-tracker.db"
	if driver == DriverYAML {
		name = "punch-tracker.yaml"
	}
	return filepath.Join(dir, "punch-tracker", name), nil
}
