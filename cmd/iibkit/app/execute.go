package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/iibkit/internal/cmd/output"
	"github.com/agentstation/iibkit/pkg/logging"
)

// rootFlags holds the persistent flag values until setupCommand folds them
// into the config.
type rootFlags struct {
	configFile string
	verbose    bool
	quiet      bool
	noColor    bool
	format     string
	logLevel   string
}

// Execute runs the iibkit CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "iibkit",
		Short:   "Image browser setup toolkit",
		Version: a.version,
		Long: `iibkit keeps the model lists of a Stable Diffusion install in sync and
points the infinite image browser at a default directory.

The reconcile command merges the "models" list of one JSON document into
another. The seed command writes a workspace snapshot into the browser's
settings database and makes it the initial page.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default is ./.iibkit.yaml or $HOME/.iibkit.yaml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	pf.StringVarP(&flags.format, "format", "o", "", "output format: text, table, json, yaml")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("iibkit {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, flags *rootFlags) error {
	if flags.configFile != "" {
		config, err := loadConfig(flags.configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	if _, err := output.ParseFormat(flags.format); err != nil {
		return err
	}
	a.config.UpdateFromFlags(flags.verbose, flags.quiet, flags.noColor, flags.format, flags.logLevel)

	logger := NewLogger(a.config)
	a.logger = &logger

	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// ExitOnError prints err to stderr and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
