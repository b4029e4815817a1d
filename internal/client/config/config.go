package config

import (
	"fmt"
	"os"
)

// Config holds runtime settings for the machinecal CLI.
type Config struct {
	DatabasePath string
	StorageKey   string
	ExportDir    string
	LogLevel     string
	LogFormat    string
	Color        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "machinecal.db"
	c.StorageKey = "htb-machines"
	c.ExportDir = "."
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.Color = "auto"
}

// DefaultEnvFile is read, if present, before the process environment.
const DefaultEnvFile = ".env"

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, a config file and command-line flags taken from args
// (without the program name). Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, DefaultEnvFile, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFile(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
