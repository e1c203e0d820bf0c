package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/internlog/server/internal/config"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// exitError carries a specific process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	serve := newServeCommand(opts)

	root := &cobra.Command{
		Use:   "internlog",
		Short: "internlog server - internship postings, applications and logbooks",
		Long: `internlog server tracks internship postings, student applications and
supervised logbook entries for an academic internship program.

Accounts carry one of four roles (student, industry, faculty, admin) and every
protected operation is checked against a fixed role policy.`,
		SilenceUsage: true,
		// serve is the default when no subcommand is given
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve.RunE(cmd, args)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (optional, uses env vars by default)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (json, console) (default: json)")

	// serve's own flags are also accepted on the bare root command
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve)
	root.AddCommand(newMigrateCommand(opts))
	root.AddCommand(newVersionCommand())
	root.AddCommand(newHealthcheckCommand())
	return root
}

// loadConfig reads the optional YAML file and the environment, then applies flag overrides.
func loadConfig(opts *globalOptions) (config.Config, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
	return cfg, nil
}
