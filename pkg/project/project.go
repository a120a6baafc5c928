// Package project defines the durable unit of storage: a named snapshot of
// a lineage graph plus user annotations and filter state, with a
// lightweight metadata index entry for fast listing.
package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/linealens/linealens/pkg/lineage"
	"github.com/linealens/linealens/pkg/lineage/filter"
)

// SchemaVersion is written into every metadata entry so future readers can
// migrate old snapshots.
const SchemaVersion = 1

// BackupVersion is the DatabaseBackup format version.
const BackupVersion = 1

// Metadata is the lightweight index entry for a saved project. It lives in
// the index collection, separate from the full blob, so listing projects
// never loads full graphs. CreatedAt is preserved across updates to the
// same id.
type Metadata struct {
	ID                string    `json:"id" bson:"id"`
	Name              string    `json:"name" bson:"name"`
	SourceProjectName string    `json:"sourceProjectName" bson:"sourceProjectName"`
	CreatedAt         time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt" bson:"updatedAt"`
	NodeCount         int       `json:"nodeCount" bson:"nodeCount"`
	PlannedNodeCount  int       `json:"plannedNodeCount" bson:"plannedNodeCount"`
	SchemaVersion     int       `json:"schemaVersion" bson:"schemaVersion"`
}

// ManifestInfo records where a project's graph came from.
type ManifestInfo struct {
	ProjectName string    `json:"projectName" bson:"projectName"`
	GeneratedAt time.Time `json:"generatedAt" bson:"generatedAt"`
}

// FilterState is the serializable form of the live filter selection:
// arrays instead of in-memory sets, plus the AND/OR mode flags.
// ResourceTypes and LayerTags must round-trip the nil/empty distinction:
// nil means the stage is off, an empty array is an explicit empty
// selection (show nothing, or user-created only). They serialize without
// omitempty so nil stays null and empty stays [].
type FilterState struct {
	ResourceTypes []string `json:"resourceTypes" bson:"resourceTypes"`
	Tags          []string `json:"tags,omitempty" bson:"tags,omitempty"`
	TagMode       string   `json:"tagMode,omitempty" bson:"tagMode,omitempty"`
	LayerTags     []string `json:"layerTags" bson:"layerTags"`
	LayerMode     string   `json:"layerMode,omitempty" bson:"layerMode,omitempty"`
	Query         string   `json:"query,omitempty" bson:"query,omitempty"`
}

// Criteria converts the stored state back into live filter criteria.
// LayerMode is carried for round-trip fidelity but layer filtering is
// OR-only, so it does not influence evaluation.
func (s FilterState) Criteria() filter.Criteria {
	mode := filter.Mode(s.TagMode)
	if mode == "" {
		mode = filter.ModeOr
	}
	return filter.Criteria{
		ResourceTypes: s.ResourceTypes,
		Tags:          s.Tags,
		TagMode:       mode,
		LayerTags:     s.LayerTags,
		Query:         s.Query,
	}
}

// StateFromCriteria converts live criteria into its serializable form.
func StateFromCriteria(c filter.Criteria) FilterState {
	return FilterState{
		ResourceTypes: c.ResourceTypes,
		Tags:          c.Tags,
		TagMode:       string(c.TagMode),
		LayerTags:     c.LayerTags,
		LayerMode:     string(filter.ModeOr),
		Query:         c.Query,
	}
}

// SavedProject is the durable unit of storage, keyed by Metadata.ID.
type SavedProject struct {
	Metadata     Metadata       `json:"metadata" bson:"metadata"`
	Nodes        []lineage.Node `json:"nodes" bson:"nodes"`
	Edges        []lineage.Edge `json:"edges" bson:"edges"`
	Filters      FilterState    `json:"filters" bson:"filters"`
	ManifestInfo ManifestInfo   `json:"manifestInfo" bson:"manifestInfo"`
}

// Valid reports whether the project carries the minimum structure required
// to be indexed: a metadata id plus node and edge collections. Backup
// imports skip invalid entries instead of failing.
func (p *SavedProject) Valid() bool {
	return p != nil && p.Metadata.ID != "" && p.Nodes != nil && p.Edges != nil
}

// DatabaseBackup is the whole-database export format.
type DatabaseBackup struct {
	Version    int            `json:"version" bson:"version"`
	ExportedAt time.Time      `json:"exportedAt" bson:"exportedAt"`
	Projects   []SavedProject `json:"projects" bson:"projects"`
}

// New creates a SavedProject snapshot of a graph with fresh metadata.
func New(name, sourceProjectName string, g *lineage.Graph, filters FilterState) *SavedProject {
	now := time.Now().UTC()
	return &SavedProject{
		Metadata: Metadata{
			ID:                uuid.NewString(),
			Name:              name,
			SourceProjectName: sourceProjectName,
			CreatedAt:         now,
			UpdatedAt:         now,
			NodeCount:         len(g.Nodes),
			SchemaVersion:     SchemaVersion,
		},
		Nodes:        g.Nodes,
		Edges:        g.Edges,
		Filters:      filters,
		ManifestInfo: ManifestInfo{ProjectName: sourceProjectName, GeneratedAt: now},
	}
}

// Graph returns the project's node/edge set as a live graph.
func (p *SavedProject) Graph() *lineage.Graph {
	return &lineage.Graph{Nodes: p.Nodes, Edges: p.Edges}
}

// Touch updates the mutable metadata fields before a save.
func (p *SavedProject) Touch() {
	p.Metadata.UpdatedAt = time.Now().UTC()
	p.Metadata.NodeCount = len(p.Nodes)
}
