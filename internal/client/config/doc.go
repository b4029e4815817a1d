// Package config loads runtime configuration for machinecal.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then MACHINECAL_* environment
//     variables (see parseEnv). Real environment variables win over .env.
//  3. Optional JSON or YAML file (see parseFile) selected with -c or --config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d, --db string           SQLite database file
//	-k, --key string          storage slot holding the collection
//	-o, --export-dir string   directory backups are written to
//	-l, --log-level string    debug, info, warn or error
//	-f, --log-format string   text, json or zap
//	    --color string        auto, always or never
//
// # File schema
//
// JSON and YAML use the same keys:
//
//	{
//	  "database_path": "machinecal.db",
//	  "storage_key": "htb-machines",
//	  "export_dir": "backups",
//	  "log_level": "debug",
//	  "log_format": "json",
//	  "color": "never"
//	}
//
// Only keys present in the file override earlier values.
package config
