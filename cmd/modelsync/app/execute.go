package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelsync/internal/cmd/output"
)

// Execute runs the modelsync CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "modelsync",
		Short:   "Validate, merge and update domain models",
		Version: a.version,
		Long: `Modelsync validates domain models (tasks, task types, teams and events),
merges partial updates into existing models and replaces them, reporting the
first violation together with the path of the offending field.

Models are read from documents naming their kind:

  kind: task
  model:
    type_id: bug
    label: Broken export

Referenced profiles, apps and task types are checked against a fixture file.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.modelsync.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: yaml, json, table")
	flags.StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	// Engine flags
	flags.StringVarP(&a.config.Fixtures, "fixtures", "f", a.config.Fixtures, "lookup fixture file answering existence checks")
	flags.StringVar(&a.config.IDPrefix, "id-prefix", a.config.IDPrefix, "assign sequential ids with this prefix instead of UUIDs")
	flags.IntVar(&a.config.MaxConcurrentLookups, "max-lookups", a.config.MaxConcurrentLookups, "existence checks in flight per operation")
	flags.DurationVar(&a.config.LookupTimeout, "lookup-timeout", a.config.LookupTimeout, "bound on a single existence check (0 disables)")
	flags.BoolVar(&a.config.Tracing, "tracing", a.config.Tracing, "wrap existence checks in OpenTelemetry spans")

	rootCmd.SetVersionTemplate("modelsync {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// These flags are defined as persistent flags in createRootCommand, so errors indicate programming errors
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	if cmd.Flags().Changed("config") {
		if err := a.config.ApplyFile(a.config.ConfigFile, cmd.Flags().Changed); err != nil {
			return err
		}
	}

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(a.NewValidateCommand())
	rootCmd.AddCommand(a.NewMergeCommand())
	rootCmd.AddCommand(a.NewUpdateCommand())
	rootCmd.AddCommand(a.NewPlanCommand())

	// Utility commands
	rootCmd.AddCommand(a.NewKindsCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
