// Package reconcile provides the reconcile command.
package reconcile

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/iibkit/cmd/application"
	"github.com/agentstation/iibkit/internal/cmd/output"
	"github.com/agentstation/iibkit/pkg/constants"
	"github.com/agentstation/iibkit/pkg/errors"
	"github.com/agentstation/iibkit/pkg/logging"
	"github.com/agentstation/iibkit/pkg/reconciler"
)

// Flags holds the reconcile command flags.
type Flags struct {
	Source  string
	Target  string
	Policy  string
	ListKey string
	IDField string
	Indent  string
	DryRun  bool
}

// NewCommand creates the reconcile command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "reconcile",
		GroupID: "core",
		Short:   "Merge the model list of one JSON document into another",
		Long: `Reconcile reads the list stored under --list-key (default "models") in the
source document and combines it into the same list of the target document.

Policies:
  merge-unique  append source entries whose identifier is not in the target
  prepend-all   put the whole source list in front of the target list

The target is rewritten atomically and only when the run succeeds. A missing
source or target file is reported and is not an error.`,
		Example: `  iibkit reconcile --source ext/models.json --target ui/models.json
  iibkit reconcile --source a.json --target b.json --policy prepend-all
  iibkit reconcile --source a.json --target b.json --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Source, "source", "", "document to read the list from")
	cmd.Flags().StringVar(&flags.Target, "target", "", "document to merge the list into")
	cmd.Flags().StringVarP(&flags.Policy, "policy", "p", reconciler.DefaultPolicy.String(), "merge policy: merge-unique, prepend-all")
	cmd.Flags().StringVar(&flags.ListKey, "list-key", constants.DefaultListKey, "top-level key holding the list")
	cmd.Flags().StringVar(&flags.IDField, "id-field", constants.DefaultIdentifierField, "entry field used to detect duplicates")
	cmd.Flags().StringVar(&flags.Indent, "indent", constants.DefaultIndent, "indentation of the written document")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "print the merged document instead of writing it")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")

	_ = cmd.RegisterFlagCompletionFunc("policy", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, p := range reconciler.Policies() {
			names = append(names, p.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// applyDefaults fills flags the user did not set from configuration.
func applyDefaults(cmd *cobra.Command, app application.Application, flags *Flags) {
	d := app.Defaults()
	set := func(name string, dst *string, value string) {
		if !cmd.Flags().Changed(name) && value != "" {
			*dst = value
		}
	}
	set("policy", &flags.Policy, d.Policy)
	set("list-key", &flags.ListKey, d.ListKey)
	set("id-field", &flags.IDField, d.IDField)
	set("indent", &flags.Indent, d.Indent)
}

func run(cmd *cobra.Command, app application.Application, flags *Flags) error {
	applyDefaults(cmd, app, flags)

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	policy, err := reconciler.ParsePolicy(flags.Policy)
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	ctx = logging.WithOperation(ctx, "reconcile")
	ctx = logging.WithPolicy(ctx, policy.String())
	logger := logging.FromContext(ctx)

	opts := []reconciler.Option{
		reconciler.WithListKey(flags.ListKey),
		reconciler.WithIdentifierField(flags.IDField),
		reconciler.WithIndent(flags.Indent),
	}

	// The report goes to stderr on dry run so stdout holds only the document.
	report := cmd.OutOrStdout()
	if flags.DryRun {
		opts = append(opts, reconciler.WithDryRun(cmd.OutOrStdout()))
		report = cmd.ErrOrStderr()
	}

	result, err := reconciler.Reconcile(ctx, flags.Source, flags.Target, policy, opts...)
	if errors.IsNotFound(err) {
		logger.Warn().Err(err).Msg("Skipping reconcile")
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", err)
		return nil
	}
	if err != nil {
		return err
	}

	return printResult(report, format, result)
}

func printResult(w io.Writer, format output.Format, result *reconciler.Result) error {
	if format == output.FormatText {
		_, err := fmt.Fprintln(w, result.Summary())
		return err
	}
	return output.NewFormatter(format).Format(w, result)
}
