package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env       string    `yaml:"env" env:"ENV" env-default:"local"`
	Shell     Shell     `yaml:"shell"`
	StorageDB StorageDB `yaml:"storage_db"`
	SQLite    SQLite    `yaml:"sqlite"`
}

type Shell struct {
	Prompt         string `yaml:"prompt" env:"SHELL_PROMPT" env-default:"> "`
	HistorySize    int    `yaml:"history_size" env:"SHELL_HISTORY_SIZE" env-default:"10"`
	MaxScriptDepth int    `yaml:"max_script_depth" env:"SHELL_MAX_SCRIPT_DEPTH" env-default:"16"`
	// RelaxXBound accepts coordinates.x above 337 at field collection.
	RelaxXBound bool `yaml:"relax_x_bound" env:"SHELL_RELAX_X_BOUND"`
}

// StorageDB is the optional postgres snapshot mirror. Empty DSN disables it.
type StorageDB struct {
	DSN string `yaml:"dsn" env:"STORAGE_DB_DSN"`
}

// SQLite is the optional sqlite snapshot mirror. Empty path disables it.
type SQLite struct {
	Path string `yaml:"path" env:"SQLITE_PATH"`
}

// Load reads the yaml file at path, or only the environment when the file does not exist.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			return &cfg, cfg.validate()
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return &cfg, cfg.validate()
}

func MustLoad(path string) *Config {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config %s: %v", path, err)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Shell.HistorySize <= 0 {
		return fmt.Errorf("shell.history_size must be positive, got %d", c.Shell.HistorySize)
	}
	if c.Shell.MaxScriptDepth <= 0 {
		return fmt.Errorf("shell.max_script_depth must be positive, got %d", c.Shell.MaxScriptDepth)
	}
	return nil
}
