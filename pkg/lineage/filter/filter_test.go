package filter

import (
	"testing"

	"github.com/linealens/linealens/pkg/lineage"
)

func node(id, typ, layer string, tags ...string) lineage.Node {
	return lineage.Node{
		ID: id,
		Data: lineage.NodeData{
			Label:             id,
			ResourceType:      typ,
			Tags:              tags,
			InferredLayerTags: []string{layer},
		},
	}
}

func userNode(id string) lineage.Node {
	return lineage.Node{
		ID: id,
		Data: lineage.NodeData{
			Label:             id,
			ResourceType:      "annotation",
			Tags:              []string{},
			InferredLayerTags: []string{},
			IsUserCreated:     true,
		},
	}
}

func testGraph() ([]lineage.Node, []lineage.Edge) {
	nodes := []lineage.Node{
		node("raw_events", "source", lineage.LayerRaw, "daily"),
		node("stg_events", "model", lineage.LayerStaging, "daily"),
		node("fct_orders", "model", lineage.LayerMart, "daily", "finance"),
		node("seed_codes", "seed", lineage.LayerMart),
		userNode("user-1"),
	}
	edges := []lineage.Edge{
		{ID: "raw_events-stg_events", Source: "raw_events", Target: "stg_events"},
		{ID: "stg_events-fct_orders", Source: "stg_events", Target: "fct_orders"},
		{ID: "seed_codes-fct_orders", Source: "seed_codes", Target: "fct_orders"},
	}
	return nodes, edges
}

func ids(nodes []lineage.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func assertIDs(t *testing.T, nodes []lineage.Node, want ...string) {
	t.Helper()
	got := ids(nodes)
	if len(got) != len(want) {
		t.Fatalf("kept %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kept[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestApply_NoCriteriaKeepsEverything(t *testing.T) {
	nodes, edges := testGraph()
	gotNodes, gotEdges := Apply(nodes, edges, Criteria{})
	if len(gotNodes) != len(nodes) || len(gotEdges) != len(edges) {
		t.Errorf("kept %d/%d, want all", len(gotNodes), len(gotEdges))
	}
}

func TestApply_ResourceTypes(t *testing.T) {
	nodes, edges := testGraph()
	got, _ := Apply(nodes, edges, Criteria{ResourceTypes: []string{"model"}})
	assertIDs(t, got, "stg_events", "fct_orders")
}

func TestApply_EmptyResourceTypesShowsNothing(t *testing.T) {
	// An explicit empty selection is distinct from an absent one.
	nodes, edges := testGraph()
	gotNodes, gotEdges := Apply(nodes, edges, Criteria{ResourceTypes: []string{}})
	if len(gotNodes) != 0 || len(gotEdges) != 0 {
		t.Errorf("kept %v, want nothing", ids(gotNodes))
	}
}

func TestApply_TagsOr(t *testing.T) {
	nodes, edges := testGraph()
	got, _ := Apply(nodes, edges, Criteria{Tags: []string{"finance", "daily"}, TagMode: ModeOr})
	assertIDs(t, got, "raw_events", "stg_events", "fct_orders")
}

func TestApply_TagsAnd(t *testing.T) {
	nodes, edges := testGraph()
	got, _ := Apply(nodes, edges, Criteria{Tags: []string{"finance", "daily"}, TagMode: ModeAnd})
	assertIDs(t, got, "fct_orders")
}

func TestApply_UntaggedNeverMatchesTagFilter(t *testing.T) {
	nodes, edges := testGraph()
	got, _ := Apply(nodes, edges, Criteria{Tags: []string{"daily"}, TagMode: ModeOr})
	for _, n := range got {
		if n.ID == "seed_codes" || n.ID == "user-1" {
			t.Errorf("untagged node %s survived tag filter", n.ID)
		}
	}
}

func TestApply_Layers(t *testing.T) {
	nodes, edges := testGraph()
	got, _ := Apply(nodes, edges, Criteria{LayerTags: []string{lineage.LayerStaging, lineage.LayerMart}})
	assertIDs(t, got, "stg_events", "fct_orders", "seed_codes", "user-1")
}

func TestApply_EmptyLayersKeepsUserCreatedOnly(t *testing.T) {
	nodes, edges := testGraph()
	got, _ := Apply(nodes, edges, Criteria{LayerTags: []string{}})
	assertIDs(t, got, "user-1")
}

func TestApply_Query(t *testing.T) {
	nodes, edges := testGraph()
	got, _ := Apply(nodes, edges, Criteria{Query: "EVENTS"})
	assertIDs(t, got, "raw_events", "stg_events")
}

func TestApply_QueryMatchesResourceType(t *testing.T) {
	nodes, edges := testGraph()
	got, _ := Apply(nodes, edges, Criteria{Query: "seed"})
	assertIDs(t, got, "seed_codes")
}

func TestApply_BlankQueryIsNoOp(t *testing.T) {
	nodes, edges := testGraph()
	got, _ := Apply(nodes, edges, Criteria{Query: "   "})
	if len(got) != len(nodes) {
		t.Errorf("kept %d, want %d", len(got), len(nodes))
	}
}

func TestApply_StagesCompose(t *testing.T) {
	nodes, edges := testGraph()
	got, _ := Apply(nodes, edges, Criteria{
		ResourceTypes: []string{"model", "source"},
		Tags:          []string{"daily"},
		TagMode:       ModeOr,
		LayerTags:     []string{lineage.LayerStaging},
	})
	assertIDs(t, got, "stg_events")
}

func TestApply_EdgesRederived(t *testing.T) {
	nodes, edges := testGraph()
	got, gotEdges := Apply(nodes, edges, Criteria{Query: "events"})

	assertIDs(t, got, "raw_events", "stg_events")
	if len(gotEdges) != 1 {
		t.Fatalf("edges = %d, want 1", len(gotEdges))
	}
	if gotEdges[0].ID != "raw_events-stg_events" {
		t.Errorf("edge = %s, want raw_events-stg_events", gotEdges[0].ID)
	}
}

func TestApply_InputUnmodified(t *testing.T) {
	nodes, edges := testGraph()
	before := len(nodes)
	Apply(nodes, edges, Criteria{ResourceTypes: []string{"model"}})
	if len(nodes) != before {
		t.Error("Apply modified its input slice")
	}
}
