package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	lerrors "github.com/linealens/linealens/pkg/errors"
	"github.com/linealens/linealens/pkg/export"
)

// Export formats.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

// exportCommand creates the export command: write a graph in a boundary
// format (minimal JSON, Graphviz DOT, or rendered SVG).
func (c *CLI) exportCommand() *cobra.Command {
	var (
		source graphSource
		format string
		name   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a lineage graph as minimal JSON, DOT or SVG",
		Long: `Export converts a graph into a boundary format:

  json  minimal projection (id, label, type, description) for external tooling
  dot   Graphviz DOT, colored by inferred layer
  svg   DOT rendered to SVG via Graphviz

Examples:
  linealens export -g graph.json -f json -o plan.json
  linealens export -p <project-id> -f dot
  linealens export -g graph.json -f svg -o lineage.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.resolveGraph(cmd.Context(), source)
			if err != nil {
				return err
			}

			switch format {
			case formatJSON:
				out, err := openOutput(output)
				if err != nil {
					return err
				}
				defer out.Close()
				if err := export.WriteJSON(name, g, out); err != nil {
					return err
				}
			case formatDOT:
				out, err := openOutput(output)
				if err != nil {
					return err
				}
				defer out.Close()
				if _, err := fmt.Fprint(out, export.ToDOT(g)); err != nil {
					return err
				}
			case formatSVG:
				if output == "" {
					return lerrors.New(lerrors.ErrCodeInvalidInput, "svg export requires --output")
				}
				prog := newProgress(c.Logger)
				svg, err := export.RenderSVG(cmd.Context(), export.ToDOT(g))
				if err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Rendered %d nodes to SVG", len(g.Nodes)))
				if err := os.WriteFile(output, svg, 0o644); err != nil {
					return err
				}
			default:
				return lerrors.New(lerrors.ErrCodeUnsupported, "unknown format %q (expected json, dot or svg)", format)
			}

			if output != "" {
				printSuccess("Exported %s", format)
				printFile(output)
			}
			return nil
		},
	}

	source.addFlags(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "export format: json, dot, svg")
	cmd.Flags().StringVarP(&name, "name", "n", "", "project name written into json exports")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty; required for svg)")

	return cmd
}
