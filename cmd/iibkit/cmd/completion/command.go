// Package completion provides the shell completion command.
package completion

import (
	"io"

	"github.com/spf13/cobra"
)

type generator struct {
	shell string
	load  string
	gen   func(root *cobra.Command, w io.Writer) error
}

var generators = []generator{
	{
		shell: "bash",
		load:  "source <(iibkit completion bash)",
		gen:   func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	},
	{
		shell: "zsh",
		load:  "source <(iibkit completion zsh)",
		gen:   func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	{
		shell: "fish",
		load:  "iibkit completion fish | source",
		gen:   func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	{
		shell: "powershell",
		load:  "iibkit completion powershell | Out-String | Invoke-Expression",
		gen:   func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

// NewCommand creates the completion command with one subcommand per shell.
// It replaces cobra's generated completion command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for iibkit.

Completions cover subcommands, flags, and the values of --policy and --mode.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	for _, g := range generators {
		cmd.AddCommand(&cobra.Command{
			Use:   g.shell,
			Short: "Generate " + g.shell + " completion script",
			Long: "Generate the autocompletion script for " + g.shell + ".\n\n" +
				"To load completions in your current shell session:\n\n  " + g.load + "\n",
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return g.gen(cmd.Root(), cmd.OutOrStdout())
			},
		})
	}

	return cmd
}
