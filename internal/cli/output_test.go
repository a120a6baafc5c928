package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/linealens/linealens/pkg/lineage"
)

func TestWriteReadGraph_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	g := &lineage.Graph{
		Nodes: []lineage.Node{
			{ID: "a", Position: lineage.Position{X: 50, Y: 50}, Data: lineage.NodeData{Label: "a"}},
			{ID: "b", Data: lineage.NodeData{Label: "b"}},
		},
		Edges: []lineage.Edge{{ID: "a-b", Source: "a", Target: "b"}},
	}

	if err := writeGraph(g, path); err != nil {
		t.Fatalf("writeGraph() error: %v", err)
	}

	got, err := readGraph(path)
	if err != nil {
		t.Fatalf("readGraph() error: %v", err)
	}
	if len(got.Nodes) != 2 || len(got.Edges) != 1 {
		t.Errorf("round trip = %s", got.Summary())
	}
	if got.Nodes[0].Position.X != 50 {
		t.Errorf("position lost: %+v", got.Nodes[0].Position)
	}
}

func TestReadGraph_Missing(t *testing.T) {
	if _, err := readGraph(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("readGraph(missing) should fail")
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Minute), "30m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}

	old := now.Add(-30 * 24 * time.Hour)
	if got := formatRelativeTime(old); got != old.Format("Jan 2, 2006") {
		t.Errorf("formatRelativeTime(old) = %q", got)
	}
}
