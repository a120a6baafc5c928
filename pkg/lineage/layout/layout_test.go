package layout

import (
	"fmt"
	"reflect"
	"testing"
)

func refs(ids ...string) []NodeRef {
	out := make([]NodeRef, len(ids))
	for i, id := range ids {
		out[i] = NodeRef{ID: id}
	}
	return out
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil, nil)
	if len(got) != 0 {
		t.Errorf("Compute(nil) = %v, want empty", got)
	}
}

func TestCompute_SingleNode(t *testing.T) {
	got := Compute(refs("a"), nil)
	want := Point{X: Margin, Y: Margin}
	if got["a"] != want {
		t.Errorf("Compute(a) = %+v, want %+v", got["a"], want)
	}
}

func TestCompute_Chain(t *testing.T) {
	// a -> b -> c: three ranks, one node each.
	got := Compute(refs("a", "b", "c"), []EdgeRef{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
	})

	for i, id := range []string{"a", "b", "c"} {
		want := Point{X: Margin + float64(i)*(NodeWidth+RankGap), Y: Margin}
		if got[id] != want {
			t.Errorf("pos[%s] = %+v, want %+v", id, got[id], want)
		}
	}
}

func TestCompute_LongestPathRank(t *testing.T) {
	// d depends on both a (rank 0) and c (rank 2); the deepest parent wins.
	got := Compute(refs("a", "b", "c", "d"), []EdgeRef{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "a", Target: "d"},
		{Source: "c", Target: "d"},
	})

	wantX := Margin + 3*(NodeWidth+RankGap)
	if got["d"].X != wantX {
		t.Errorf("d.X = %v, want %v (rank 3)", got["d"].X, wantX)
	}
}

func TestCompute_SiblingSpacing(t *testing.T) {
	// One source fanning out to three siblings in rank 1.
	got := Compute(refs("src", "a", "b", "c"), []EdgeRef{
		{Source: "src", Target: "a"},
		{Source: "src", Target: "b"},
		{Source: "src", Target: "c"},
	})

	ys := []float64{got["a"].Y, got["b"].Y, got["c"].Y}
	for i := 1; i < len(ys); i++ {
		if ys[i]-ys[i-1] != NodeHeight+SiblingGap {
			t.Errorf("sibling gap %v, want %v", ys[i]-ys[i-1], NodeHeight+SiblingGap)
		}
	}
}

func TestCompute_ComponentsStackVertically(t *testing.T) {
	// Two disconnected chains; the second starts below the first.
	got := Compute(refs("a", "b", "x", "y"), []EdgeRef{
		{Source: "a", Target: "b"},
		{Source: "x", Target: "y"},
	})

	firstBottom := got["a"].Y + NodeHeight
	wantY := firstBottom + ComponentGap
	if got["x"].Y != wantY {
		t.Errorf("x.Y = %v, want %v (below first component)", got["x"].Y, wantY)
	}
	if got["x"].X != Margin {
		t.Errorf("x.X = %v, want %v (component restarts at rank 0)", got["x"].X, Margin)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	nodes := refs("a", "b", "c", "d", "e", "f")
	edges := []EdgeRef{
		{Source: "a", Target: "c"},
		{Source: "b", Target: "c"},
		{Source: "b", Target: "d"},
		{Source: "c", Target: "e"},
		{Source: "d", Target: "e"},
		{Source: "d", Target: "f"},
	}

	first := Compute(nodes, edges)
	for i := 0; i < 10; i++ {
		if got := Compute(nodes, edges); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged: %v != %v", i, got, first)
		}
	}
}

func TestCompute_NoOverlap(t *testing.T) {
	// Dense-ish random-shaped graph; no two nodes may share a position.
	var nodes []NodeRef
	var edges []EdgeRef
	for i := 0; i < 20; i++ {
		nodes = append(nodes, NodeRef{ID: fmt.Sprintf("n%d", i)})
		if i > 0 {
			edges = append(edges, EdgeRef{
				Source: fmt.Sprintf("n%d", (i*7)%i),
				Target: fmt.Sprintf("n%d", i),
			})
		}
	}

	got := Compute(nodes, edges)
	if len(got) != len(nodes) {
		t.Fatalf("positioned %d nodes, want %d", len(got), len(nodes))
	}
	seen := make(map[Point]string)
	for id, p := range got {
		if other, dup := seen[p]; dup {
			t.Errorf("nodes %s and %s share position %+v", id, other, p)
		}
		seen[p] = id
	}
}

func TestCompute_UnknownEdgeEndpointsIgnored(t *testing.T) {
	got := Compute(refs("a"), []EdgeRef{
		{Source: "a", Target: "ghost"},
		{Source: "ghost", Target: "a"},
	})
	if got["a"] != (Point{X: Margin, Y: Margin}) {
		t.Errorf("a = %+v, want margin origin", got["a"])
	}
}

func TestCompute_CycleTerminates(t *testing.T) {
	// A cycle cannot be ranked by Kahn; its members stay at rank 0 and the
	// call must still terminate with every node positioned.
	got := Compute(refs("a", "b"), []EdgeRef{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "a"},
	})
	if len(got) != 2 {
		t.Fatalf("positioned %d nodes, want 2", len(got))
	}
}

func TestCountLayerCrossings(t *testing.T) {
	a := buildAdjacency(refs("u1", "u2", "l1", "l2"), []EdgeRef{
		{Source: "u1", Target: "l2"},
		{Source: "u2", Target: "l1"},
	})

	if got := a.countLayerCrossings([]string{"u1", "u2"}, []string{"l1", "l2"}); got != 1 {
		t.Errorf("crossings = %d, want 1", got)
	}
	// Swapping the lower rank removes the crossing.
	if got := a.countLayerCrossings([]string{"u1", "u2"}, []string{"l2", "l1"}); got != 0 {
		t.Errorf("crossings after swap = %d, want 0", got)
	}
}

func TestCountLayerCrossings_Complete(t *testing.T) {
	// K2,2 has exactly one crossing in any order.
	a := buildAdjacency(refs("u1", "u2", "l1", "l2"), []EdgeRef{
		{Source: "u1", Target: "l1"},
		{Source: "u1", Target: "l2"},
		{Source: "u2", Target: "l1"},
		{Source: "u2", Target: "l2"},
	})
	if got := a.countLayerCrossings([]string{"u1", "u2"}, []string{"l1", "l2"}); got != 1 {
		t.Errorf("crossings = %d, want 1", got)
	}
}

func TestTotalCrossings(t *testing.T) {
	// Three ranks; the middle/lower pair contributes the only crossing.
	a := buildAdjacency(refs("t", "u1", "u2", "l1", "l2"), []EdgeRef{
		{Source: "t", Target: "u1"},
		{Source: "u1", Target: "l2"},
		{Source: "u2", Target: "l1"},
	})
	orders := map[int][]string{
		0: {"t"},
		1: {"u1", "u2"},
		2: {"l1", "l2"},
	}

	if got := a.totalCrossings(orders, 2); got != 1 {
		t.Errorf("totalCrossings = %d, want 1", got)
	}
	orders[2] = []string{"l2", "l1"}
	if got := a.totalCrossings(orders, 2); got != 0 {
		t.Errorf("totalCrossings after reorder = %d, want 0", got)
	}
}

func TestRefineBySwaps_RemovesCrossing(t *testing.T) {
	a := buildAdjacency(refs("u1", "u2", "l1", "l2"), []EdgeRef{
		{Source: "u1", Target: "l2"},
		{Source: "u2", Target: "l1"},
	})
	orders := map[int][]string{
		0: {"u1", "u2"},
		1: {"l1", "l2"},
	}

	a.refineBySwaps(orders, 1)

	if got := a.totalCrossings(orders, 1); got != 0 {
		t.Errorf("crossings after refinement = %d, want 0 (orders %v)", got, orders)
	}
}

func TestOrderRanks_ReducesCrossings(t *testing.T) {
	// Input order of rank-2 nodes is inverted relative to their parents;
	// barycenter ordering must untangle it.
	nodes := refs("r", "p1", "p2", "c2", "c1")
	edges := []EdgeRef{
		{Source: "r", Target: "p1"},
		{Source: "r", Target: "p2"},
		{Source: "p1", Target: "c1"},
		{Source: "p2", Target: "c2"},
	}
	a := buildAdjacency(nodes, edges)
	comp := a.components()[0]
	ranks := a.assignRanks(comp)
	orders := a.orderRanks(comp, ranks)

	if got := a.countLayerCrossings(orders[1], orders[2]); got != 0 {
		t.Errorf("crossings after ordering = %d, want 0 (order %v)", got, orders[2])
	}
}

func TestBuildAdjacency_DuplicateIDsIgnored(t *testing.T) {
	a := buildAdjacency(refs("a", "a", "b"), nil)
	if len(a.order) != 2 {
		t.Errorf("order = %v, want [a b]", a.order)
	}
}

func TestComponents_InputOrder(t *testing.T) {
	a := buildAdjacency(refs("x", "a", "b"), []EdgeRef{{Source: "a", Target: "b"}})
	comps := a.components()
	if len(comps) != 2 {
		t.Fatalf("components = %d, want 2", len(comps))
	}
	// First component is seeded by the first input node.
	if comps[0][0] != "x" {
		t.Errorf("first component starts with %s, want x", comps[0][0])
	}
}
