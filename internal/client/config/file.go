package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/machinecal/internal/flagx"
	"gopkg.in/yaml.v3"
)

// fileConfig is a DTO used exclusively for file unmarshalling. Empty values
// leave the corresponding Config field untouched.
type fileConfig struct {
	DatabasePath string `json:"database_path" yaml:"database_path"`
	StorageKey   string `json:"storage_key" yaml:"storage_key"`
	ExportDir    string `json:"export_dir" yaml:"export_dir"`
	LogLevel     string `json:"log_level" yaml:"log_level"`
	LogFormat    string `json:"log_format" yaml:"log_format"`
	Color        string `json:"color" yaml:"color"`
}

// parseFile overlays cfg with the file named by -c/--config in args. The
// format follows the extension: .yaml and .yml are YAML, anything else JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	overlay(&cfg.DatabasePath, fc.DatabasePath)
	overlay(&cfg.StorageKey, fc.StorageKey)
	overlay(&cfg.ExportDir, fc.ExportDir)
	overlay(&cfg.LogLevel, fc.LogLevel)
	overlay(&cfg.LogFormat, fc.LogFormat)
	overlay(&cfg.Color, fc.Color)
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
