package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/linealens/linealens/pkg/lineage"
)

// nopCloser wraps an io.Writer with a no-op Close method so os.Stdout can be
// used where an io.WriteCloser is expected.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path, or stdout if empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// graphDocument is the full graph wire shape written by graph-producing
// commands: the same node/edge JSON that the store persists.
type graphDocument struct {
	Nodes []lineage.Node `json:"nodes"`
	Edges []lineage.Edge `json:"edges"`
}

// writeGraph serializes g as pretty-printed JSON to path (or stdout).
func writeGraph(g *lineage.Graph, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(graphDocument{Nodes: g.Nodes, Edges: g.Edges})
}

// readGraph loads a graph document from a JSON file written by writeGraph
// (or a saved project's nodes/edges).
func readGraph(path string) (*lineage.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc graphDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &lineage.Graph{Nodes: doc.Nodes, Edges: doc.Edges}, nil
}
