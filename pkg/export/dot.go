package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/linealens/linealens/pkg/lineage"
)

// layer fill colors follow pipeline order, raw (dark) to mart (light).
var layerFill = map[string]string{
	lineage.LayerRaw:          "#d9e8f5",
	lineage.LayerBase:         "#d9e8f5",
	lineage.LayerStaging:      "#e3f2e1",
	lineage.LayerIntermediate: "#fdf3d7",
	lineage.LayerCore:         "#fde2cf",
	lineage.LayerMart:         "#f6d9e8",
	lineage.LayerMartInternal: "#f6d9e8",
	lineage.LayerMartPublic:   "#f6d9e8",
}

// ToDOT converts a lineage graph to Graphviz DOT, oriented left to right to
// match the engine's rank direction. Nodes are colored by inferred layer;
// user-created nodes get a dashed outline.
func ToDOT(g *lineage.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph lineage {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i := range g.Nodes {
		n := &g.Nodes[i]
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *lineage.Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.Data.Label)}
	if n.Data.IsUserCreated {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
		return attrs
	}
	for _, layer := range n.Data.InferredLayerTags {
		if fill, ok := layerFill[layer]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
			break
		}
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
