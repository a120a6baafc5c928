// Package filter reduces a lineage graph to the nodes matching a set of
// user-selected criteria, re-deriving the edge set from the survivors.
//
// Filtering is a pure staged narrowing: each stage is an independent
// predicate over a node, and stages run in a fixed order because two of
// them carry "empty selection" special cases:
//
//  1. Resource type — a supplied-but-empty set means "show nothing".
//  2. Tags — AND/OR across the selected tags; untagged nodes never match.
//  3. Inferred layer — a supplied-but-empty set keeps only user-created
//     nodes; a non-empty set keeps user-created nodes unconditionally plus
//     nodes whose inferred tags intersect the set (OR semantics only).
//  4. Free-text search — case-insensitive substring over label,
//     description and resource type; a blank query is a no-op.
//
// A nil ResourceTypes or LayerTags slice means "no filter of that kind";
// an empty non-nil slice is an explicit empty selection. Edges are never
// filtered independently: the output edge set is always the subset of the
// input whose endpoints both survive.
package filter

import (
	"strings"

	"github.com/linealens/linealens/pkg/lineage"
)

// Mode selects how multiple selected tags combine.
type Mode string

const (
	// ModeOr keeps nodes matching any selected tag.
	ModeOr Mode = "or"
	// ModeAnd keeps nodes matching every selected tag.
	ModeAnd Mode = "and"
)

// Criteria is the live filter selection applied to a graph.
type Criteria struct {
	// ResourceTypes restricts by resource type. nil disables the stage;
	// an empty non-nil slice yields an empty result by design.
	ResourceTypes []string

	// Tags restricts by user tags; an empty slice disables the stage.
	Tags    []string
	TagMode Mode

	// LayerTags restricts by inferred layer. nil disables the stage; an
	// empty non-nil slice keeps only user-created nodes. User-created
	// nodes are always exempt because they carry no inferred layer.
	// Layer selection is OR-only.
	LayerTags []string

	// Query is a free-text search over label, description and resource
	// type. Leading/trailing whitespace is ignored.
	Query string
}

// predicate decides whether a single node survives one filter stage.
type predicate func(n *lineage.Node) bool

// Apply runs the staged filter pipeline and returns the surviving nodes
// plus the rederived edges. The inputs are not modified.
func Apply(nodes []lineage.Node, edges []lineage.Edge, c Criteria) ([]lineage.Node, []lineage.Edge) {
	out := nodes
	for _, p := range c.stages() {
		out = narrow(out, p)
	}

	kept := make(map[string]bool, len(out))
	for _, n := range out {
		kept[n.ID] = true
	}
	outEdges := make([]lineage.Edge, 0, len(edges))
	for _, e := range edges {
		if kept[e.Source] && kept[e.Target] {
			outEdges = append(outEdges, e)
		}
	}
	return out, outEdges
}

// stages assembles the active predicate pipeline in evaluation order.
func (c Criteria) stages() []predicate {
	var ps []predicate
	if c.ResourceTypes != nil {
		ps = append(ps, resourceTypePredicate(c.ResourceTypes))
	}
	if len(c.Tags) > 0 {
		ps = append(ps, tagPredicate(c.Tags, c.TagMode))
	}
	if c.LayerTags != nil {
		ps = append(ps, layerPredicate(c.LayerTags))
	}
	if q := strings.TrimSpace(c.Query); q != "" {
		ps = append(ps, searchPredicate(q))
	}
	return ps
}

func narrow(nodes []lineage.Node, p predicate) []lineage.Node {
	out := make([]lineage.Node, 0, len(nodes))
	for i := range nodes {
		if p(&nodes[i]) {
			out = append(out, nodes[i])
		}
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}

func resourceTypePredicate(types []string) predicate {
	set := toSet(types)
	return func(n *lineage.Node) bool {
		return set[n.Data.ResourceType]
	}
}

func tagPredicate(tags []string, mode Mode) predicate {
	set := toSet(tags)
	return func(n *lineage.Node) bool {
		if len(n.Data.Tags) == 0 {
			return false
		}
		nodeTags := toSet(n.Data.Tags)
		if mode == ModeAnd {
			for t := range set {
				if !nodeTags[t] {
					return false
				}
			}
			return true
		}
		for t := range set {
			if nodeTags[t] {
				return true
			}
		}
		return false
	}
}

func layerPredicate(layers []string) predicate {
	set := toSet(layers)
	return func(n *lineage.Node) bool {
		if n.Data.IsUserCreated {
			return true
		}
		for _, t := range n.Data.InferredLayerTags {
			if set[t] {
				return true
			}
		}
		return false
	}
}

func searchPredicate(query string) predicate {
	q := strings.ToLower(query)
	return func(n *lineage.Node) bool {
		return strings.Contains(strings.ToLower(n.Data.Label), q) ||
			strings.Contains(strings.ToLower(n.Data.Description), q) ||
			strings.Contains(strings.ToLower(n.Data.ResourceType), q)
	}
}
