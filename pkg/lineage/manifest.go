package lineage

import (
	"encoding/json"
	"io"
	"os"
	"sort"

	lerrors "github.com/linealens/linealens/pkg/errors"
)

// Entity is one raw dependency-described unit from a pipeline manifest.
// This is the builder's input shape; only UniqueID, Name and ResourceType
// are required. A malformed or missing depends_on is treated as "no
// dependencies", never as an error.
type Entity struct {
	UniqueID     string    `json:"unique_id"`
	Name         string    `json:"name"`
	ResourceType string    `json:"resource_type"`
	DependsOn    DependsOn `json:"depends_on"`
	Description  string    `json:"description,omitempty"`
	CompiledCode string    `json:"compiled_code,omitempty"`
	RawCode      string    `json:"raw_code,omitempty"`
	Database     string    `json:"database,omitempty"`
	Schema       string    `json:"schema,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Config       struct {
		Materialized string `json:"materialized,omitempty"`
	} `json:"config"`
}

// DependsOn is the dependency list wrapper used by manifest files.
// It tolerates both a {"nodes": [...]} object and absent/null values.
type DependsOn struct {
	Nodes []string `json:"nodes"`
}

// UnmarshalJSON accepts an object, null, or any malformed value.
// Anything that is not an object with a nodes array decodes to an empty
// dependency list (the dangling-tolerance policy starts at the input edge).
func (d *DependsOn) UnmarshalJSON(data []byte) error {
	type alias DependsOn
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		*d = DependsOn{}
		return nil
	}
	*d = DependsOn(a)
	return nil
}

// Code returns the entity's code body, preferring compiled over raw.
func (e *Entity) Code() string {
	if e.CompiledCode != "" {
		return e.CompiledCode
	}
	return e.RawCode
}

// Manifest is a decoded dependency description: a project name plus the
// normalized, unique-id-ordered entity list.
type Manifest struct {
	ProjectName string
	Entities    []Entity
}

// rawManifest mirrors the on-disk layout: entities keyed by unique id,
// with sources kept in a separate collection.
type rawManifest struct {
	Metadata struct {
		ProjectName string `json:"project_name"`
	} `json:"metadata"`
	Nodes   map[string]Entity `json:"nodes"`
	Sources map[string]Entity `json:"sources"`
}

// ParseManifest decodes a manifest from r and normalizes it.
//
// The input must be a JSON object with a non-empty "nodes" collection; an
// optional "sources" collection is merged in. Entities are ordered by
// unique id so that map iteration order never influences the built graph
// or its layout.
//
// Errors carry ErrCodeInvalidManifest (not an object / no nodes
// collection) or ErrCodeEmptyManifest (zero entities after normalization).
func ParseManifest(r io.Reader) (*Manifest, error) {
	var raw rawManifest
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidManifest, err, "manifest is not a JSON object")
	}
	if raw.Nodes == nil {
		return nil, lerrors.New(lerrors.ErrCodeInvalidManifest, "manifest has no nodes collection")
	}

	entities := make([]Entity, 0, len(raw.Nodes)+len(raw.Sources))
	for id, e := range raw.Nodes {
		if e.UniqueID == "" {
			e.UniqueID = id
		}
		entities = append(entities, e)
	}
	for id, e := range raw.Sources {
		if e.UniqueID == "" {
			e.UniqueID = id
		}
		if e.ResourceType == "" {
			e.ResourceType = ResourceSource
		}
		entities = append(entities, e)
	}
	if len(entities) == 0 {
		return nil, lerrors.New(lerrors.ErrCodeEmptyManifest, "manifest contains no entities")
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].UniqueID < entities[j].UniqueID
	})

	return &Manifest{
		ProjectName: raw.Metadata.ProjectName,
		Entities:    entities,
	}, nil
}

// ParseManifestFile reads and parses a manifest from a file path.
func ParseManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidManifest, err, "open manifest %s", path)
	}
	defer f.Close()
	return ParseManifest(f)
}
