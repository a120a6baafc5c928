package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	lerrors "github.com/linealens/linealens/pkg/errors"
	"github.com/linealens/linealens/pkg/lineage"
	"github.com/linealens/linealens/pkg/lineage/filter"
	"github.com/linealens/linealens/pkg/lineage/traverse"
	"github.com/linealens/linealens/pkg/observability"
	"github.com/linealens/linealens/pkg/project"
	"github.com/linealens/linealens/pkg/store"
)

// Result contains the outputs of an import run.
type Result struct {
	// Graph is the built, laid-out lineage graph.
	Graph *lineage.Graph

	// Project is the snapshot, populated when Options.Save is set.
	Project *project.SavedProject

	// SourceProject is the project name declared by the manifest.
	SourceProject string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount int
	EdgeCount int
	ParseTime time.Duration
	BuildTime time.Duration
}

// Runner executes pipeline operations against a project store.
type Runner struct {
	store  *store.Store
	logger *log.Logger
}

// NewRunner creates a pipeline runner. The store may be nil when only
// non-persisting operations are used; the logger defaults to discard.
func NewRunner(st *store.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{store: st, logger: logger}
}

// Import runs the full pipeline: parse, build, layout and optionally save.
func (r *Runner) Import(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "invalid import options")
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.logger
	}

	source := opts.ManifestPath
	if source == "" {
		source = "(inline)"
	}
	observability.Pipeline().OnBuildStart(ctx, source)

	parseStart := time.Now()
	var (
		manifest *lineage.Manifest
		err      error
	)
	if opts.ManifestPath != "" {
		manifest, err = lineage.ParseManifestFile(opts.ManifestPath)
	} else {
		manifest, err = lineage.ParseManifest(opts.Manifest)
	}
	parseTime := time.Since(parseStart)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, source, 0, 0, parseTime, err)
		return nil, err
	}
	logger.Debug("manifest parsed", "entities", len(manifest.Entities), "project", manifest.ProjectName)

	buildStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(manifest.Entities))
	graph := lineage.Build(manifest.Entities)
	buildTime := time.Since(buildStart)
	observability.Pipeline().OnLayoutComplete(ctx, buildTime)
	observability.Pipeline().OnBuildComplete(ctx, source, len(graph.Nodes), len(graph.Edges), parseTime+buildTime, nil)
	logger.Info("graph built", "nodes", len(graph.Nodes), "edges", len(graph.Edges))

	result := &Result{
		Graph:         graph,
		SourceProject: manifest.ProjectName,
		Stats: Stats{
			NodeCount: len(graph.Nodes),
			EdgeCount: len(graph.Edges),
			ParseTime: parseTime,
			BuildTime: buildTime,
		},
	}

	if opts.Save {
		name := opts.ProjectName
		if name == "" {
			name = manifest.ProjectName
		}
		if name == "" {
			name = "untitled"
		}
		p := project.New(name, manifest.ProjectName, graph, project.FilterState{})
		if err := r.store.Save(ctx, p); err != nil {
			return nil, err
		}
		result.Project = p
	}

	return result, nil
}

// Filter applies criteria to a graph and recomputes the layout of the
// surviving sub-graph so disconnected remnants stack cleanly.
func (r *Runner) Filter(g *lineage.Graph, c filter.Criteria) *lineage.Graph {
	nodes, edges := filter.Apply(g.Nodes, g.Edges, c)
	out := &lineage.Graph{Nodes: nodes, Edges: edges}
	lineage.ApplyLayout(out)
	return out
}

// Direction selects a traversal orientation for Trace.
type Direction string

const (
	// Upstream follows edges backward to all ancestors.
	Upstream Direction = "upstream"
	// Downstream follows edges forward to all descendants.
	Downstream Direction = "downstream"
	// Both unions ancestors and descendants (full impact view).
	Both Direction = "both"
)

// Trace extracts the focus sub-graph around nodeID: the selected node plus
// everything reachable in the given direction, with edges rederived from
// the kept node set and a fresh layout.
func (r *Runner) Trace(g *lineage.Graph, nodeID string, dir Direction) (*lineage.Graph, error) {
	if !g.HasNode(nodeID) {
		return nil, lerrors.New(lerrors.ErrCodeNodeNotFound, "node %q not in graph", nodeID)
	}

	keep := make(map[string]bool)
	switch dir {
	case Upstream:
		keep = traverse.Ancestors(nodeID, g.Edges)
	case Downstream:
		keep = traverse.Descendants(nodeID, g.Edges)
	case Both, "":
		keep = traverse.Ancestors(nodeID, g.Edges)
		for id := range traverse.Descendants(nodeID, g.Edges) {
			keep[id] = true
		}
	default:
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "unknown direction %q", dir)
	}

	out := &lineage.Graph{}
	for _, n := range g.Nodes {
		if keep[n.ID] {
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range g.Edges {
		if keep[e.Source] && keep[e.Target] {
			out.Edges = append(out.Edges, e)
		}
	}
	lineage.ApplyLayout(out)
	return out, nil
}
