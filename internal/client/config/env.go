package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// EnvPrefix starts every environment variable the config reads.
const EnvPrefix = "MACHINECAL_"

// parseEnv overlays cfg with MACHINECAL_* variables. Values from envFile are
// used when the variable is not set in the environment; a missing envFile is
// not an error.
func parseEnv(cfg *Config, envFile string, lookup func(string) (string, bool)) error {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return err
		}
	}

	get := func(name string) (string, bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			return v, true
		}
		v, ok := fileVars[EnvPrefix+name]
		return v, ok
	}

	for name, dst := range map[string]*string{
		"DB":         &cfg.DatabasePath,
		"KEY":        &cfg.StorageKey,
		"EXPORT_DIR": &cfg.ExportDir,
		"LOG_LEVEL":  &cfg.LogLevel,
		"LOG_FORMAT": &cfg.LogFormat,
		"COLOR":      &cfg.Color,
	} {
		if v, ok := get(name); ok && v != "" {
			*dst = v
		}
	}
	return nil
}
