package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	lerrors "github.com/linealens/linealens/pkg/errors"
	"github.com/linealens/linealens/pkg/lineage"
	"github.com/linealens/linealens/pkg/lineage/filter"
	"github.com/linealens/linealens/pkg/store"
)

const sampleManifest = `{
	"metadata": {"project_name": "warehouse"},
	"nodes": {
		"model.p.stg_x": {
			"name": "stg_x", "resource_type": "model",
			"depends_on": {"nodes": ["source.p.raw_x"]}
		},
		"model.p.mart_y": {
			"name": "mart_y", "resource_type": "model",
			"depends_on": {"nodes": ["model.p.stg_x"]}
		}
	},
	"sources": {
		"source.p.raw_x": {"name": "raw_x"}
	}
}`

func newTestRunner() *Runner {
	st := store.New(store.NewMemoryBackend(), log.New(io.Discard))
	return NewRunner(st, log.New(io.Discard))
}

func TestOptions_Validate(t *testing.T) {
	var o Options
	if err := o.Validate(); err == nil {
		t.Error("empty options should fail validation")
	}

	o = Options{ManifestPath: "x", Manifest: strings.NewReader("{}")}
	if err := o.Validate(); err == nil {
		t.Error("path and content together should fail validation")
	}

	o = Options{Manifest: strings.NewReader("{}")}
	if err := o.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	if o.Logger == nil {
		t.Error("Validate should default the logger")
	}
}

func TestImport_BuildsGraph(t *testing.T) {
	r := newTestRunner()

	result, err := r.Import(context.Background(), Options{Manifest: strings.NewReader(sampleManifest)})
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	if result.SourceProject != "warehouse" {
		t.Errorf("SourceProject = %q, want warehouse", result.SourceProject)
	}
	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 2 {
		t.Fatalf("stats = %d nodes / %d edges, want 3/2", result.Stats.NodeCount, result.Stats.EdgeCount)
	}
	if result.Project != nil {
		t.Error("Project set without Save")
	}

	g := result.Graph
	raw := g.NodeByID("source.p.raw_x")
	stg := g.NodeByID("model.p.stg_x")
	mart := g.NodeByID("model.p.mart_y")
	if raw == nil || stg == nil || mart == nil {
		t.Fatal("built graph missing nodes")
	}

	// Layer inference by name, one tag per node.
	if raw.Data.InferredLayerTags[0] != lineage.LayerRaw {
		t.Errorf("raw layer = %v", raw.Data.InferredLayerTags)
	}
	if stg.Data.InferredLayerTags[0] != lineage.LayerStaging {
		t.Errorf("stg layer = %v", stg.Data.InferredLayerTags)
	}
	if mart.Data.InferredLayerTags[0] != lineage.LayerMart {
		t.Errorf("mart layer = %v", mart.Data.InferredLayerTags)
	}

	// Chain ranks left to right.
	if !(raw.Position.X < stg.Position.X && stg.Position.X < mart.Position.X) {
		t.Errorf("positions not rank-ordered: %v %v %v", raw.Position, stg.Position, mart.Position)
	}
}

func TestImport_SavePersistsProject(t *testing.T) {
	ctx := context.Background()
	st := store.New(store.NewMemoryBackend(), log.New(io.Discard))
	r := NewRunner(st, log.New(io.Discard))

	result, err := r.Import(ctx, Options{
		Manifest:    strings.NewReader(sampleManifest),
		ProjectName: "my-view",
		Save:        true,
	})
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if result.Project == nil {
		t.Fatal("Project not set with Save")
	}
	if result.Project.Metadata.Name != "my-view" {
		t.Errorf("project name = %q, want my-view", result.Project.Metadata.Name)
	}

	loaded, err := st.Load(ctx, result.Project.Metadata.ID)
	if err != nil || loaded == nil {
		t.Fatalf("Load() = (%v, %v), want saved project", loaded, err)
	}
	if len(loaded.Nodes) != 3 {
		t.Errorf("persisted nodes = %d, want 3", len(loaded.Nodes))
	}
}

func TestImport_NameFallsBackToManifest(t *testing.T) {
	r := newTestRunner()
	result, err := r.Import(context.Background(), Options{
		Manifest: strings.NewReader(sampleManifest),
		Save:     true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Project.Metadata.Name != "warehouse" {
		t.Errorf("name = %q, want manifest project name", result.Project.Metadata.Name)
	}
}

func TestImport_InvalidManifest(t *testing.T) {
	r := newTestRunner()
	_, err := r.Import(context.Background(), Options{Manifest: strings.NewReader(`{"metadata": {}}`)})
	if !lerrors.Is(err, lerrors.ErrCodeInvalidManifest) {
		t.Errorf("error = %v, want INVALID_MANIFEST", err)
	}
}

func TestFilter_ReappliesLayout(t *testing.T) {
	r := newTestRunner()
	result, err := r.Import(context.Background(), Options{Manifest: strings.NewReader(sampleManifest)})
	if err != nil {
		t.Fatal(err)
	}

	out := r.Filter(result.Graph, filter.Criteria{ResourceTypes: []string{"model"}})
	if len(out.Nodes) != 2 {
		t.Fatalf("filtered nodes = %d, want 2", len(out.Nodes))
	}

	// raw_x dropped, so stg_x becomes a source and moves to rank 0.
	stg := out.NodeByID("model.p.stg_x")
	orig := result.Graph.NodeByID("model.p.stg_x")
	if stg.Position.X >= orig.Position.X {
		t.Errorf("layout not recomputed: filtered X %v, original X %v", stg.Position.X, orig.Position.X)
	}
}

func TestTrace_Directions(t *testing.T) {
	r := newTestRunner()
	result, err := r.Import(context.Background(), Options{Manifest: strings.NewReader(sampleManifest)})
	if err != nil {
		t.Fatal(err)
	}
	g := result.Graph

	up, err := r.Trace(g, "model.p.stg_x", Upstream)
	if err != nil {
		t.Fatal(err)
	}
	if len(up.Nodes) != 2 || up.NodeByID("model.p.mart_y") != nil {
		t.Errorf("upstream trace = %v", up.NodeIDs())
	}

	down, err := r.Trace(g, "model.p.stg_x", Downstream)
	if err != nil {
		t.Fatal(err)
	}
	if len(down.Nodes) != 2 || down.NodeByID("source.p.raw_x") != nil {
		t.Errorf("downstream trace = %v", down.NodeIDs())
	}

	both, err := r.Trace(g, "model.p.stg_x", Both)
	if err != nil {
		t.Fatal(err)
	}
	if len(both.Nodes) != 3 || len(both.Edges) != 2 {
		t.Errorf("both trace = %v / %d edges", both.NodeIDs(), len(both.Edges))
	}
}

func TestTrace_UnknownNode(t *testing.T) {
	r := newTestRunner()
	result, err := r.Import(context.Background(), Options{Manifest: strings.NewReader(sampleManifest)})
	if err != nil {
		t.Fatal(err)
	}

	_, err = r.Trace(result.Graph, "model.p.nope", Both)
	if !lerrors.Is(err, lerrors.ErrCodeNodeNotFound) {
		t.Errorf("error = %v, want NODE_NOT_FOUND", err)
	}
}

func TestTrace_UnknownDirection(t *testing.T) {
	r := newTestRunner()
	result, err := r.Import(context.Background(), Options{Manifest: strings.NewReader(sampleManifest)})
	if err != nil {
		t.Fatal(err)
	}

	_, err = r.Trace(result.Graph, "model.p.stg_x", Direction("sideways"))
	if !lerrors.Is(err, lerrors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}
