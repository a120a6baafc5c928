package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linealens/linealens/pkg/pipeline"
)

// importOpts holds the command-line flags for the import command.
type importOpts struct {
	name   string // project name override
	save   bool   // persist the built graph as a project
	output string // output file path (stdout if empty)
}

// importCommand creates the import command: parse a manifest, build the
// lineage graph with layout, and optionally save it as a project.
func (c *CLI) importCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import <manifest.json>",
		Short: "Import a pipeline manifest and build its lineage graph",
		Long: `Import a data pipeline manifest (dbt manifest.json format), build the
typed lineage graph with inferred layer tags, and compute the hierarchical
layout.

Examples:
  linealens import target/manifest.json                 # Print graph JSON
  linealens import target/manifest.json --save          # Save as a project
  linealens import target/manifest.json -n warehouse --save
  linealens import target/manifest.json -o graph.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "project name (overrides the manifest's own name)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the graph as a new project")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runImport(cmd *cobra.Command, manifestPath string, opts importOpts) error {
	ctx := cmd.Context()

	runner := pipeline.NewRunner(nil, c.Logger)
	pipelineOpts := pipeline.Options{
		ManifestPath: manifestPath,
		ProjectName:  opts.name,
		Logger:       c.Logger,
	}

	if opts.save {
		st, err := c.newStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		runner = pipeline.NewRunner(st, c.Logger)
		pipelineOpts.Save = true
	}

	sp := newSpinnerWithContext(ctx, "Building lineage graph")
	sp.Start()
	result, err := runner.Import(ctx, pipelineOpts)
	if err != nil {
		if sp.Cancelled() {
			sp.Stop()
			return err
		}
		sp.StopWithError("Import failed")
		return err
	}
	sp.StopWithSuccess(fmt.Sprintf("Built %d nodes with %d edges", result.Stats.NodeCount, result.Stats.EdgeCount))

	if result.Project != nil {
		printSuccess("Saved project %s", StyleValue.Render(result.Project.Metadata.Name))
		printDetail("id: %s", result.Project.Metadata.ID)
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount)
		printNextStep("Explore it", fmt.Sprintf("linealens explore %s", result.Project.Metadata.ID))
		return nil
	}

	if err := writeGraph(result.Graph, opts.output); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Wrote graph")
		printFile(opts.output)
	}
	return nil
}
