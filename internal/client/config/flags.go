package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/machinecal/internal/flagx"
)

// flagNames are the flags parseFlags owns, short and long spelling.
var flagNames = []string{
	"d", "db",
	"k", "key",
	"o", "export-dir",
	"l", "log-level",
	"f", "log-format",
	"color",
}

// parseFlags populates Config fields from command-line flags.
//
// The function filters args to only include the flags it knows about,
// using flagx.FilterArgs, so subcommand flags and positional arguments do
// not interfere.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, flagx.Spellings(flagNames...))

	fs := flag.NewFlagSet("machinecal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	stringFlag(fs, &cfg.DatabasePath, "d", "db", "SQLite database file")
	stringFlag(fs, &cfg.StorageKey, "k", "key", "storage slot holding the collection")
	stringFlag(fs, &cfg.ExportDir, "o", "export-dir", "directory backups are written to")
	stringFlag(fs, &cfg.LogLevel, "l", "log-level", "log level (debug, info, warn, error)")
	stringFlag(fs, &cfg.LogFormat, "f", "log-format", "log format (text, json, zap)")
	fs.StringVar(&cfg.Color, "color", cfg.Color, "colour output (auto, always, never)")

	return fs.Parse(filtered)
}

func stringFlag(fs *flag.FlagSet, p *string, short, long, usage string) {
	fs.StringVar(p, short, *p, usage)
	fs.StringVar(p, long, *p, usage)
}
