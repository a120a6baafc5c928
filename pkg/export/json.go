// Package export produces the boundary formats consumed by external
// exporters and viewers: the minimal graph projection (no positions, no
// tags) and Graphviz DOT/SVG renderings of a lineage graph.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/linealens/linealens/pkg/lineage"
)

// MinimalNode is the reduced node projection: identity and description
// only, suitable for work-plan generation by external tooling.
type MinimalNode struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// MinimalEdge mirrors the engine edge shape.
type MinimalEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// MinimalGraph is the minimal graph export consumed by external exporters.
type MinimalGraph struct {
	ProjectName string        `json:"projectName"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Nodes       []MinimalNode `json:"nodes"`
	Edges       []MinimalEdge `json:"edges"`
}

// Minimal projects a graph into its minimal export form.
func Minimal(projectName string, g *lineage.Graph) MinimalGraph {
	out := MinimalGraph{
		ProjectName: projectName,
		GeneratedAt: time.Now().UTC(),
		Nodes:       make([]MinimalNode, len(g.Nodes)),
		Edges:       make([]MinimalEdge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = MinimalNode{
			ID:          n.ID,
			Label:       n.Data.Label,
			Type:        n.Data.ResourceType,
			Description: n.Data.Description,
		}
	}
	for i, e := range g.Edges {
		out.Edges[i] = MinimalEdge{ID: e.ID, Source: e.Source, Target: e.Target}
	}
	return out
}

// WriteJSON encodes the minimal projection of g to w, pretty-printed.
func WriteJSON(projectName string, g *lineage.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Minimal(projectName, g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the minimal projection to a file at path.
func ExportJSON(projectName string, g *lineage.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(projectName, g, f)
}
