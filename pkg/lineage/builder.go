package lineage

import (
	"github.com/linealens/linealens/pkg/lineage/layout"
)

// Build turns a normalized entity list into a laid-out lineage graph.
//
// For each entity one node is created; for each dependency id that exists
// in the entity set one edge is created. Dependency ids pointing outside
// the set are silently dropped — dependencies that cannot be drawn are a
// tolerance case, not an error. Every node receives exactly one inferred
// layer tag from its name.
//
// Positions start at (0,0) and are overwritten by the layout engine before
// Build returns, so the returned graph is ready to display.
func Build(entities []Entity) *Graph {
	known := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		known[e.UniqueID] = struct{}{}
	}

	g := &Graph{
		Nodes: make([]Node, 0, len(entities)),
		Edges: make([]Edge, 0, len(entities)),
	}

	for _, e := range entities {
		g.Nodes = append(g.Nodes, Node{
			ID: e.UniqueID,
			Data: NodeData{
				Label:             e.Name,
				ResourceType:      e.ResourceType,
				Description:       e.Description,
				Code:              e.Code(),
				Database:          e.Database,
				Schema:            e.Schema,
				Tags:              normalizeTags(e.Tags),
				InferredLayerTags: []string{InferLayer(e.Name)},
				Materialized:      e.Config.Materialized != "" && e.Config.Materialized != "ephemeral",
			},
		})

		for _, dep := range e.DependsOn.Nodes {
			if _, ok := known[dep]; !ok {
				continue // dangling dependency: outside the provided node set
			}
			g.Edges = append(g.Edges, Edge{
				ID:     EdgeID(dep, e.UniqueID),
				Source: dep,
				Target: e.UniqueID,
			})
		}
	}

	ApplyLayout(g)
	return g
}

// BuildFromManifest parses a manifest and builds its graph in one step.
func BuildFromManifest(m *Manifest) *Graph {
	return Build(m.Entities)
}

// ApplyLayout recomputes node positions in place using the hierarchical
// layout engine. It is called by Build and again whenever the visible node
// set changes (e.g. after filtering).
func ApplyLayout(g *Graph) {
	adj := make([]layout.NodeRef, len(g.Nodes))
	for i, n := range g.Nodes {
		adj[i] = layout.NodeRef{ID: n.ID}
	}
	edges := make([]layout.EdgeRef, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = layout.EdgeRef{Source: e.Source, Target: e.Target}
	}

	positions := layout.Compute(adj, edges)
	for i := range g.Nodes {
		if p, ok := positions[g.Nodes[i].ID]; ok {
			g.Nodes[i].Position = Position{X: p.X, Y: p.Y}
		}
	}
}
