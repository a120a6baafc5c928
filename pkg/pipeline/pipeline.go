// Package pipeline provides the core import pipeline for LineaLens.
//
// The pipeline implements the manifest → build → layout → snapshot flow
// shared by the CLI and the HTTP API. Centralizing it keeps behavior
// identical across entry points:
//
//  1. Parse: decode and normalize the dependency manifest
//  2. Build: construct the typed node/edge graph with inferred layers
//  3. Layout: compute hierarchical positions (runs inside Build)
//  4. Snapshot: wrap the graph in a saveable project (optional)
//
// # Usage
//
//	runner := pipeline.NewRunner(st, logger)
//	result, err := runner.Import(ctx, pipeline.Options{
//	    ManifestPath: "target/manifest.json",
//	    ProjectName:  "warehouse",
//	    Save:         true,
//	})
package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Options configures an import run.
type Options struct {
	// ManifestPath is the manifest file to import. Exactly one of
	// ManifestPath and Manifest must be set.
	ManifestPath string `json:"manifest_path,omitempty"`

	// Manifest supplies manifest content directly (API uploads).
	Manifest io.Reader `json:"-"`

	// ProjectName names the saved project. Defaults to the manifest's
	// own project name, falling back to "untitled".
	ProjectName string `json:"project_name,omitempty"`

	// Save persists the built graph as a new project snapshot.
	Save bool `json:"save,omitempty"`

	// Logger used during the run. Defaults to a discard logger.
	Logger *log.Logger `json:"-"`
}

// Validate checks required fields and applies defaults.
func (o *Options) Validate() error {
	if o.ManifestPath == "" && o.Manifest == nil {
		return fmt.Errorf("manifest path or content is required")
	}
	if o.ManifestPath != "" && o.Manifest != nil {
		return fmt.Errorf("manifest path and content are mutually exclusive")
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}
