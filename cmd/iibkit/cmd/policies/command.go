// Package policies provides the policies command.
package policies

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/iibkit/cmd/application"
	"github.com/agentstation/iibkit/internal/cmd/output"
	"github.com/agentstation/iibkit/pkg/reconciler"
)

// Info describes one policy in structured output.
type Info struct {
	Policy      string `json:"policy" yaml:"policy"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Default     bool   `json:"default" yaml:"default"`
}

// NewCommand creates the policies command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List reconcile policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}

			infos := make([]Info, 0, len(reconciler.Policies()))
			for _, p := range reconciler.Policies() {
				infos = append(infos, Info{
					Policy:      p.String(),
					Name:        p.Name(),
					Description: p.Description(),
					Default:     p == reconciler.DefaultPolicy,
				})
			}

			switch format {
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), infos)
			default:
				data := output.Data{
					Headers:         []string{"Policy", "Name", "Description"},
					ColumnAlignment: []output.Align{output.AlignLeft, output.AlignLeft, output.AlignLeft},
				}
				for _, info := range infos {
					policy := info.Policy
					if info.Default {
						policy += " (default)"
					}
					data.Rows = append(data.Rows, []string{policy, info.Name, info.Description})
				}
				return output.NewFormatter(output.FormatTable).Format(cmd.OutOrStdout(), data)
			}
		},
	}
}
