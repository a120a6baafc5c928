package cli

import (
	"strings"

	"github.com/spf13/cobra"

	lerrors "github.com/linealens/linealens/pkg/errors"
	"github.com/linealens/linealens/pkg/lineage"
	"github.com/linealens/linealens/pkg/lineage/filter"
	"github.com/linealens/linealens/pkg/pipeline"
)

// filterOpts holds the command-line flags for the filter command. Slice
// flags left unset stay nil, which disables the corresponding stage.
type filterOpts struct {
	types   []string
	tags    []string
	tagMode string
	layers  []string
	query   string
	output  string
}

func (o *filterOpts) criteria() filter.Criteria {
	mode := filter.Mode(o.tagMode)
	if mode == "" {
		mode = filter.ModeOr
	}
	return filter.Criteria{
		ResourceTypes: o.types,
		Tags:          o.tags,
		TagMode:       mode,
		LayerTags:     o.layers,
		Query:         o.query,
	}
}

// filterCommand creates the filter command: apply staged predicates to a
// graph and emit the surviving sub-graph with a fresh layout.
func (c *CLI) filterCommand() *cobra.Command {
	var (
		source graphSource
		opts   filterOpts
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter a lineage graph by type, tags, layer or text",
		Long: `Filter applies staged predicates to a graph: resource types first, then
tags (AND or OR), then inferred layers, then a free-text search over labels
and descriptions. Edges between surviving nodes are kept; all others drop.

Examples:
  linealens filter -g graph.json --type model --type seed
  linealens filter -p <project-id> --tag finance --tag daily --tag-mode and
  linealens filter -g graph.json --layer staging --layer mart
  linealens filter -g graph.json --query orders -o filtered.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateLayers(opts.layers); err != nil {
				return err
			}
			g, err := c.resolveGraph(cmd.Context(), source)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, c.Logger)
			out := runner.Filter(g, opts.criteria())

			c.Logger.Info("filter applied", "kept", len(out.Nodes), "of", len(g.Nodes))
			return writeGraph(out, opts.output)
		},
	}

	source.addFlags(cmd)
	cmd.Flags().StringArrayVar(&opts.types, "type", nil, "resource type to keep (repeatable)")
	cmd.Flags().StringArrayVar(&opts.tags, "tag", nil, "tag to match (repeatable)")
	cmd.Flags().StringVar(&opts.tagMode, "tag-mode", string(filter.ModeOr), "tag match mode: and, or")
	cmd.Flags().StringArrayVar(&opts.layers, "layer", nil, "inferred layer to keep (repeatable)")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "free-text search over labels and descriptions")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// validateLayers rejects layer names the inference rules never produce, so
// a typo fails loudly instead of silently filtering everything out.
func validateLayers(layers []string) error {
	for _, l := range layers {
		known := false
		for _, k := range lineage.Layers {
			if l == k {
				known = true
				break
			}
		}
		if !known {
			return lerrors.New(lerrors.ErrCodeInvalidInput,
				"unknown layer %q (expected one of: %s)", l, strings.Join(lineage.Layers, ", "))
		}
	}
	return nil
}
