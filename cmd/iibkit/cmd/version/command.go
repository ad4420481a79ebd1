// Package version provides the version command.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/iibkit/cmd/application"
	"github.com/agentstation/iibkit/internal/cmd/output"
)

// Info is the structured form of the version output.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// NewCommand creates the version command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the iibkit version. Add -v for commit, build date and builder.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Info{
				Version:   app.Version(),
				Commit:    app.Commit(),
				Date:      app.Date(),
				BuiltBy:   app.BuiltBy(),
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if format != output.FormatText {
				return output.NewFormatter(format).Format(w, info)
			}

			fmt.Fprintf(w, "iibkit version %s\n", info.Version)
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				fmt.Fprintf(w, "commit: %s\n", info.Commit)
				fmt.Fprintf(w, "built: %s\n", info.Date)
				fmt.Fprintf(w, "built by: %s\n", info.BuiltBy)
				fmt.Fprintf(w, "go version: %s\n", info.GoVersion)
				fmt.Fprintf(w, "platform: %s\n", info.Platform)
			}
			return nil
		},
	}
}
