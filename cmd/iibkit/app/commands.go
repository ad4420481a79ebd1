package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/iibkit/cmd/iibkit/cmd/completion"
	"github.com/agentstation/iibkit/cmd/iibkit/cmd/policies"
	"github.com/agentstation/iibkit/cmd/iibkit/cmd/reconcile"
	"github.com/agentstation/iibkit/cmd/iibkit/cmd/seed"
	"github.com/agentstation/iibkit/cmd/iibkit/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(reconcile.NewCommand(a))
	rootCmd.AddCommand(seed.NewCommand(a))
	rootCmd.AddCommand(policies.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())
}
