// Package seed provides the seed command.
package seed

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/iibkit/cmd/application"
	"github.com/agentstation/iibkit/internal/cmd/output"
	"github.com/agentstation/iibkit/pkg/constants"
	"github.com/agentstation/iibkit/pkg/logging"
	"github.com/agentstation/iibkit/pkg/seed"
)

// Flags holds the seed command flags.
type Flags struct {
	ProjectPath  string
	Mode         string
	DBName       string
	SnapshotName string
}

// NewCommand creates the seed command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "seed <path>",
		GroupID: "core",
		Short:   "Make a directory the image browser's default view",
		Long: `Seed writes a workspace snapshot whose single pane shows <path> into the
image browser's settings database, then makes that snapshot the initial page.

The database lives at <project-path>/<db-name> and is created when missing.
Other global settings are kept.`,
		Example: `  iibkit seed /data/outputs --project-path /opt/sd-webui-infinite-image-browsing
  iibkit seed /data/outputs --project-path . --mode scanned`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.ProjectPath, "project-path", "", "image browser installation directory")
	cmd.Flags().StringVar(&flags.Mode, "mode", seed.DefaultMode.String(), "browsing mode: walk, scanned, scanned-fixed")
	cmd.Flags().StringVar(&flags.DBName, "db-name", constants.DefaultDBName, "settings database file name")
	cmd.Flags().StringVar(&flags.SnapshotName, "snapshot-name", constants.DefaultSnapshotName, "display name of the seeded view")

	_ = cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, m := range seed.Modes() {
			names = append(names, m.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func run(cmd *cobra.Command, app application.Application, flags *Flags, path string) error {
	d := app.Defaults()
	set := func(name string, dst *string, value string) {
		if !cmd.Flags().Changed(name) && value != "" {
			*dst = value
		}
	}
	set("project-path", &flags.ProjectPath, d.ProjectPath)
	set("mode", &flags.Mode, d.Mode)
	set("db-name", &flags.DBName, d.DBName)
	set("snapshot-name", &flags.SnapshotName, d.SnapshotName)

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	mode, err := seed.ParseMode(flags.Mode)
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	ctx = logging.WithOperation(ctx, "seed")
	ctx = logging.WithPath(ctx, "db", filepath.Join(flags.ProjectPath, flags.DBName))
	result, err := seed.Run(ctx, seed.Options{
		Path:         path,
		ProjectPath:  flags.ProjectPath,
		Mode:         mode,
		SnapshotName: flags.SnapshotName,
		DBName:       flags.DBName,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if format != output.FormatText {
		return output.NewFormatter(format).Format(w, result)
	}
	fmt.Fprintf(w, "Database initialized at %s\n", result.DBPath)
	fmt.Fprintf(w, "Successfully configured default path: %s (%s)\n", result.Path, result.Mode)
	return nil
}
