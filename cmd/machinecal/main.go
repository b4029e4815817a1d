// Package main provides the machinecal binary entry point: an interactive
// catalog of training machines, plus one-shot subcommands over the same store.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/machinecal/internal/buildinfo"
	"github.com/dmitrijs2005/machinecal/internal/client/cli"
	"github.com/dmitrijs2005/machinecal/internal/client/config"
	"github.com/dmitrijs2005/machinecal/internal/client/models"
	"github.com/dmitrijs2005/machinecal/internal/client/services"
	"github.com/dmitrijs2005/machinecal/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := rootCmd(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.Notice(err))
		stop()
		os.Exit(1)
	}
}

// env holds the streams shared by every subcommand.
type env struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// configArgs turns the flags set on the command line back into --name=value
// arguments for config.LoadConfig, after cobra has parsed every spelling.
func configArgs(fs *pflag.FlagSet) []string {
	args := make([]string, 0)
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			args = append(args, "--"+f.Name+"="+f.Value.String())
		}
	})
	return args
}

// open resolves the configuration and opens the App. The caller must call
// the returned cleanup function.
func (e *env) open(cmd *cobra.Command) (*cli.App, func(), error) {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(configArgs(cmd.Flags()))
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, e.errOut)
	if err != nil {
		return nil, nil, err
	}

	app, err := cli.NewApp(ctx, cfg, logger, e.in, e.out)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := app.Close(); err != nil {
			logger.Warn(ctx, "close database", "error", err)
		}
		if s, ok := logger.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}
	}
	return app, cleanup, nil
}

func rootCmd(args []string, in io.Reader, out, errOut io.Writer) *cobra.Command {
	e := &env{in: in, out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   "machinecal",
		Short: "Track progress on cybersecurity training machines",
		Long: `machinecal keeps a local catalog of training machines: status,
difficulty, concepts learned, a 0-5 rating and your opinion.

Without a subcommand it starts an interactive prompt.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			app.Run(cmd.Context())
			return nil
		},
	}

	// Defaults here are for help only; config.LoadConfig layers the flags
	// that were set over the environment and the config file.
	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "config file (JSON or YAML)")
	pf.StringP("db", "d", "machinecal.db", "SQLite database file")
	pf.StringP("key", "k", "htb-machines", "storage slot holding the collection")
	pf.StringP("export-dir", "o", ".", "directory backups are written to")
	pf.StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	pf.StringP("log-format", "f", "text", "log format (text, json, zap)")
	pf.String("color", "auto", "colour output (auto, always, never)")

	cmd.AddCommand(
		listCmd(e),
		statsCmd(e),
		exportCmd(e),
		importCmd(e),
		clearCmd(e),
		versionCmd(e),
	)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd
}

func listCmd(e *env) *cobra.Command {
	var status, search, html string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show machines, optionally filtered and searched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := models.ParseFilter(status)
			if err != nil {
				return err
			}

			app, cleanup, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := app.Service().SetFilter(f); err != nil {
				return err
			}
			app.Service().SetSearch(search)

			if html != "" {
				return app.HTML(cmd.Context(), []string{html})
			}
			return app.List(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "status filter (all, pending, in-progress, pwned)")
	cmd.Flags().StringVar(&search, "search", "", "search name, concepts and description")
	cmd.Flags().StringVar(&html, "html", "", "write the view as an HTML page to this file")
	return cmd
}

func statsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print summary counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			_, stats := app.Service().View()
			fmt.Fprintf(e.out, "Total: %d\nPwned: %d\nPending: %d\n", stats.Total, stats.Pwned, stats.Pending)
			return nil
		},
	}
}

func exportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export [DIR]",
		Short: "Write a JSON backup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			return app.Export(cmd.Context(), args)
		},
	}
}

func importCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace every machine with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if !yes {
				return app.Import(cmd.Context(), args)
			}
			n, err := app.Service().Import(cmd.Context(), args[0], assumeYes)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "✅ Data imported\n%d machines loaded\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func clearCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if !yes {
				return app.Clear(cmd.Context())
			}
			if err := app.Service().DeleteAll(cmd.Context(), assumeYes); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "✅ All data has been deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func versionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(e.out)
		},
	}
}

var assumeYes = services.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
