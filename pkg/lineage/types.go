package lineage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Resource types commonly found in pipeline manifests. The engine treats the
// resource type as an opaque string; these constants exist for callers that
// build or filter graphs programmatically.
const (
	ResourceModel    = "model"
	ResourceSource   = "source"
	ResourceSeed     = "seed"
	ResourceSnapshot = "snapshot"
	ResourceExposure = "exposure"
)

// Inferred layer tags derived from entity names. Exactly one is assigned to
// every built node; user-created nodes carry none.
const (
	LayerBase         = "base"
	LayerRaw          = "raw"
	LayerStaging      = "staging"
	LayerIntermediate = "intermediate"
	LayerCore         = "core"
	LayerMart         = "mart"
	LayerMartInternal = "mart-internal"
	LayerMartPublic   = "mart-public"
)

// Layers lists all inferred layer tags in pipeline order (raw to mart).
var Layers = []string{
	LayerRaw, LayerBase, LayerStaging, LayerIntermediate,
	LayerCore, LayerMart, LayerMartInternal, LayerMartPublic,
}

// Position is a 2-D coordinate in logical layout units.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// NodeData holds the display and annotation payload of a node.
// Label, Tags, ResourceType and the annotation fields are mutable while a
// session is open; InferredLayerTags and IsUserCreated are set at creation
// and never change.
type NodeData struct {
	Label             string   `json:"label" bson:"label"`
	ResourceType      string   `json:"resourceType" bson:"resourceType"`
	Description       string   `json:"description,omitempty" bson:"description,omitempty"`
	Code              string   `json:"code,omitempty" bson:"code,omitempty"`
	Database          string   `json:"database,omitempty" bson:"database,omitempty"`
	Schema            string   `json:"schema,omitempty" bson:"schema,omitempty"`
	Tags              []string `json:"tags" bson:"tags"`
	InferredLayerTags []string `json:"inferredLayerTags" bson:"inferredLayerTags"`
	IsUserCreated     bool     `json:"isUserCreated" bson:"isUserCreated"`
	Materialized      bool     `json:"materialized,omitempty" bson:"materialized,omitempty"`
}

// Node is a vertex of the lineage graph. The ID is globally unique and
// stable across sessions, except for user-created nodes whose ID is
// synthesized at creation time.
type Node struct {
	ID       string   `json:"id" bson:"id"`
	Position Position `json:"position" bson:"position"`
	Data     NodeData `json:"data" bson:"data"`
}

// Edge is a directed dependency: data flows from Source to Target.
// The ID is conventionally "<source>-<target>".
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// EdgeID returns the conventional edge identifier for a source/target pair.
func EdgeID(source, target string) string {
	return source + "-" + target
}

// Graph is a node/edge set. The invariant maintained by the builder and the
// filter engine is that every edge endpoint exists in Nodes.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// NodeByID returns a pointer into the graph's node slice, or nil.
// The pointer stays valid until Nodes is reallocated.
func (g *Graph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool { return g.NodeByID(id) != nil }

// AddUserNode appends a user-created node with a synthesized unique ID and
// returns it. User-created nodes have no inferred layer tags and are exempt
// from layer filtering.
func (g *Graph) AddUserNode(label, resourceType string, pos Position) Node {
	n := Node{
		ID:       "user-" + uuid.NewString(),
		Position: pos,
		Data: NodeData{
			Label:             label,
			ResourceType:      resourceType,
			Tags:              []string{},
			InferredLayerTags: []string{},
			IsUserCreated:     true,
		},
	}
	g.Nodes = append(g.Nodes, n)
	return n
}

// AddEdge appends a directed edge between two existing nodes and returns it.
// Returns an error if either endpoint is missing; duplicate (source,target)
// pairs are permitted.
func (g *Graph) AddEdge(source, target string) (Edge, error) {
	if !g.HasNode(source) {
		return Edge{}, fmt.Errorf("unknown source node %q", source)
	}
	if !g.HasNode(target) {
		return Edge{}, fmt.Errorf("unknown target node %q", target)
	}
	e := Edge{ID: EdgeID(source, target), Source: source, Target: target}
	g.Edges = append(g.Edges, e)
	return e, nil
}

// RemoveNode deletes a node and every edge touching it.
// Removing an unknown ID is a no-op.
func (g *Graph) RemoveNode(id string) {
	nodes := g.Nodes[:0]
	for _, n := range g.Nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	g.Nodes = nodes

	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if e.Source != id && e.Target != id {
			edges = append(edges, e)
		}
	}
	g.Edges = edges
}

// NodeIDs returns the IDs of all nodes in graph order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Summary returns a short human-readable description of the graph.
func (g *Graph) Summary() string {
	return fmt.Sprintf("%d nodes, %d edges", len(g.Nodes), len(g.Edges))
}

// normalizeTags trims and deduplicates a tag list, preserving first
// occurrence order. A nil input yields an empty, non-nil slice so that
// serialized nodes always carry a tags array.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
