package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/linealens/linealens/pkg/project"
)

// FileBackend stores projects as JSON files in a directory:
//
//	<dir>/index.json
//	<dir>/projects/<id>.json
//
// Every write goes through a temp file plus rename, so a crash mid-write
// can never leave a partially written blob behind — a reader sees either
// the previous complete file or the new one.
type FileBackend struct {
	mu  sync.RWMutex
	dir string
}

// NewFileBackend creates a file backend rooted at dir. If dir is empty,
// it defaults to ~/.local/share/linealens/projects.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".local", "share", "linealens", "projects")
	}
	if err := os.MkdirAll(filepath.Join(dir, "projects"), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Path returns the backend's root directory.
func (b *FileBackend) Path() string { return b.dir }

func (b *FileBackend) projectPath(id string) string {
	// Project ids may contain path-hostile characters (dbt ids use dots);
	// flatten separators so every blob stays inside the projects dir.
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(id)
	return filepath.Join(b.dir, "projects", safe+".json")
}

func (b *FileBackend) indexPath() string {
	return filepath.Join(b.dir, "index.json")
}

// writeFileAtomic writes data to path via a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func (b *FileBackend) ReadProject(ctx context.Context, id string) (*project.SavedProject, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, err := os.ReadFile(b.projectPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read project file: %w", err)
	}
	var p project.SavedProject
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project file: %w", err)
	}
	return &p, nil
}

func (b *FileBackend) WriteProject(ctx context.Context, p *project.SavedProject) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	if err := writeFileAtomic(b.projectPath(p.Metadata.ID), data); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}

func (b *FileBackend) DeleteProject(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.Remove(b.projectPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove project file: %w", err)
	}
	return nil
}

func (b *FileBackend) ReadIndex(ctx context.Context) ([]project.Metadata, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, err := os.ReadFile(b.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read index file: %w", err)
	}
	var entries []project.Metadata
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse index file: %w", err)
	}
	return entries, nil
}

func (b *FileBackend) WriteIndex(ctx context.Context, entries []project.Metadata) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if entries == nil {
		entries = []project.Metadata{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := writeFileAtomic(b.indexPath(), data); err != nil {
		return fmt.Errorf("write index file: %w", err)
	}
	return nil
}

func (b *FileBackend) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.RemoveAll(filepath.Join(b.dir, "projects")); err != nil {
		return fmt.Errorf("clear projects: %w", err)
	}
	if err := os.Remove(b.indexPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear index: %w", err)
	}
	return os.MkdirAll(filepath.Join(b.dir, "projects"), 0o755)
}

func (b *FileBackend) Close() error { return nil }

var _ Backend = (*FileBackend)(nil)
