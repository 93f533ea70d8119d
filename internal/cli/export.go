package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tuiwbs/internal/export"
	"tuiwbs/internal/view"
)

func newExportCmd() *cobra.Command {
	var dir, format, out, viewID string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a view to a Markdown table or Mermaid gantt file, headless",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveDir(dir, nil)
			if err != nil {
				return classifyErr(err, 2)
			}
			p, err := loadHeadless(target)
			if err != nil {
				return classifyErr(err, 2)
			}
			cfg, ok := p.Config.ViewByID(viewID)
			if !ok {
				return classifyErr(fmt.Errorf("no views configured for %s", target), 2)
			}
			rows := view.Project(p, cfg, time.Now())

			if out == "" {
				return classifyErr(fmt.Errorf("--out is required"), 2)
			}

			switch format {
			case "markdown", "md":
				if err := export.WriteMarkdownTable(out, rows, cfg); err != nil {
					return classifyErr(err, 4)
				}
			case "mermaid", "mmd":
				if err := export.WriteMermaidGantt(out, rows, p.Config.Name); err != nil {
					return classifyErr(err, 4)
				}
			default:
				return classifyErr(fmt.Errorf("unknown export format %q (want markdown or mermaid)", format), 2)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Project directory (default: current directory)")
	cmd.Flags().StringVar(&format, "format", "markdown", "Export format: markdown or mermaid")
	cmd.Flags().StringVar(&out, "out", "", "Output file path")
	cmd.Flags().StringVar(&viewID, "view", "", "View id to render (default: the project's default view)")

	return cmd
}
