package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/linealens/linealens/pkg/project"
)

// MemoryBackend keeps both collections in process memory. Intended for
// development and tests. Values are deep-copied on the way in and out so
// callers can never alias stored state.
type MemoryBackend struct {
	mu       sync.RWMutex
	projects map[string][]byte
	index    []byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{projects: make(map[string][]byte)}
}

func (b *MemoryBackend) ReadProject(ctx context.Context, id string) (*project.SavedProject, error) {
	b.mu.RLock()
	data, ok := b.projects[id]
	b.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var p project.SavedProject
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (b *MemoryBackend) WriteProject(ctx context.Context, p *project.SavedProject) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.projects[p.Metadata.ID] = data
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) DeleteProject(ctx context.Context, id string) error {
	b.mu.Lock()
	delete(b.projects, id)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) ReadIndex(ctx context.Context) ([]project.Metadata, error) {
	b.mu.RLock()
	data := b.index
	b.mu.RUnlock()
	if data == nil {
		return nil, nil
	}
	var entries []project.Metadata
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (b *MemoryBackend) WriteIndex(ctx context.Context, entries []project.Metadata) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.index = data
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Reset(ctx context.Context) error {
	b.mu.Lock()
	b.projects = make(map[string][]byte)
	b.index = nil
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Close() error { return nil }

var _ Backend = (*MemoryBackend)(nil)
