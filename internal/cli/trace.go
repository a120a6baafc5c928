package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	lerrors "github.com/linealens/linealens/pkg/errors"
	"github.com/linealens/linealens/pkg/lineage"
	"github.com/linealens/linealens/pkg/pipeline"
)

// graphSource selects where a graph-consuming command reads its input:
// a graph JSON file or a saved project.
type graphSource struct {
	graphPath string
	projectID string
}

func (s *graphSource) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.graphPath, "graph", "g", "", "graph JSON file (as written by import)")
	cmd.Flags().StringVarP(&s.projectID, "project", "p", "", "saved project id")
}

// resolve loads the graph from whichever source is set. Exactly one of
// --graph and --project must be given.
func (c *CLI) resolveGraph(ctx context.Context, s graphSource) (*lineage.Graph, error) {
	switch {
	case s.graphPath != "" && s.projectID != "":
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "--graph and --project are mutually exclusive")
	case s.graphPath != "":
		return readGraph(s.graphPath)
	case s.projectID != "":
		st, err := c.newStore(ctx)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		p, err := st.Load(ctx, s.projectID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, lerrors.New(lerrors.ErrCodeProjectNotFound, "project %s not found", s.projectID)
		}
		return p.Graph(), nil
	default:
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "one of --graph or --project is required")
	}
}

// traceCommand creates the trace command: extract the sub-graph upstream,
// downstream, or both from a selected node.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		source    graphSource
		direction string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "trace <node-id>",
		Short: "Trace lineage upstream or downstream from a node",
		Long: `Trace extracts the focus sub-graph around a node: the node itself plus
everything reachable upstream (ancestors), downstream (descendants), or both.

Examples:
  linealens trace model.jaffle.orders -g graph.json
  linealens trace model.jaffle.orders -p <project-id> -d upstream
  linealens trace model.jaffle.orders -g graph.json -d downstream -o sub.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.resolveGraph(cmd.Context(), source)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, c.Logger)
			sub, err := runner.Trace(g, args[0], pipeline.Direction(direction))
			if err != nil {
				return err
			}

			c.Logger.Info("trace complete", "node", args[0], "direction", direction,
				"nodes", len(sub.Nodes), "edges", len(sub.Edges))
			return writeGraph(sub, output)
		},
	}

	source.addFlags(cmd)
	cmd.Flags().StringVarP(&direction, "direction", "d", string(pipeline.Both),
		fmt.Sprintf("traversal direction: %s, %s or %s", pipeline.Upstream, pipeline.Downstream, pipeline.Both))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
