// Package store persists project snapshots durably.
//
// A [Store] pairs two collections living in one [Backend]: the project
// store (id → full SavedProject blob) and a lightweight metadata index
// (one entry per project) used for listing without loading full graphs.
//
// Backends:
//   - memory: In-memory storage for development/testing
//   - file: JSON files with atomic rename writes, for CLI use
//   - redis: Redis-backed storage
//   - mongo: MongoDB-backed storage
//
// # Save/load ordering
//
// The only hazard in this engine is a load racing an in-flight save of the
// same project id. Every Save registers itself in a per-instance pending
// registry for its duration; Load first waits for a registered in-flight
// save of the same id, establishing a happens-before relationship between
// a save and any later load of that id. There is no cross-id coordination:
// saves of different ids proceed independently. The registry belongs to
// the Store instance, so separate stores (e.g. in tests) never share
// hazard state.
//
// # Failure policy
//
// Backend failures are caught here, logged, and returned as STORAGE_ERROR
// wrapped errors so callers can degrade gracefully; a missing project is
// (nil, nil), not an error. In-flight writes always run to completion —
// cancellation is not supported for storage operations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	lerrors "github.com/linealens/linealens/pkg/errors"
	"github.com/linealens/linealens/pkg/observability"
	"github.com/linealens/linealens/pkg/project"
)

// Backend is the raw persistence surface a Store drives. Implementations
// return (nil, nil) from ReadProject when the id is absent and must treat
// DeleteProject of a missing id as a no-op.
type Backend interface {
	ReadProject(ctx context.Context, id string) (*project.SavedProject, error)
	WriteProject(ctx context.Context, p *project.SavedProject) error
	DeleteProject(ctx context.Context, id string) error

	ReadIndex(ctx context.Context) ([]project.Metadata, error)
	WriteIndex(ctx context.Context, entries []project.Metadata) error

	// Reset removes both collections entirely. Used by ImportAll's
	// clear-then-write replacement.
	Reset(ctx context.Context) error

	Close() error
}

// Store implements the persistence operations over a Backend.
type Store struct {
	backend Backend
	logger  *log.Logger

	mu      sync.Mutex
	pending map[string]chan struct{}
}

// New creates a Store over the given backend. A nil logger falls back to
// the default logger.
func New(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		backend: backend,
		logger:  logger,
		pending: make(map[string]chan struct{}),
	}
}

// Close releases backend resources.
func (s *Store) Close() error { return s.backend.Close() }

// beginSave registers an in-flight save for id and returns the completion
// signal to close when the save settles (success or failure).
func (s *Store) beginSave(id string) chan struct{} {
	done := make(chan struct{})
	s.mu.Lock()
	s.pending[id] = done
	s.mu.Unlock()
	return done
}

// endSave deregisters the in-flight save and releases waiters.
func (s *Store) endSave(id string, done chan struct{}) {
	s.mu.Lock()
	if s.pending[id] == done {
		delete(s.pending, id)
	}
	s.mu.Unlock()
	close(done)
}

// awaitPending blocks until an in-flight save of id (if any) settles.
func (s *Store) awaitPending(id string) {
	s.mu.Lock()
	done := s.pending[id]
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Save upserts a project: the full blob is written first, then the index,
// and Save returns only after both writes settle. An existing index entry
// is replaced in place with its original CreatedAt preserved; a new entry
// is appended. UpdatedAt and NodeCount are refreshed on every save.
func (s *Store) Save(ctx context.Context, p *project.SavedProject) error {
	start := time.Now()
	id := p.Metadata.ID
	done := s.beginSave(id)
	defer s.endSave(id, done)

	p.Touch()

	err := s.save(ctx, p)
	observability.Store().OnSave(ctx, id, time.Since(start), err)
	if err != nil {
		s.logger.Error("save project failed", "id", id, "err", err)
		return lerrors.Wrap(lerrors.ErrCodeStorage, err, "save project %s", id)
	}
	s.logger.Debug("project saved", "id", id, "nodes", p.Metadata.NodeCount)
	return nil
}

func (s *Store) save(ctx context.Context, p *project.SavedProject) error {
	entries, err := s.backend.ReadIndex(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range entries {
		if entries[i].ID == p.Metadata.ID {
			p.Metadata.CreatedAt = entries[i].CreatedAt
			entries[i] = p.Metadata
			replaced = true
			break
		}
	}

	// Blob before index: a crash between the two leaves a blob without an
	// index entry, never an index entry pointing at a missing blob.
	if err := s.backend.WriteProject(ctx, p); err != nil {
		return err
	}

	if !replaced {
		entries = append(entries, p.Metadata)
	}
	return s.backend.WriteIndex(ctx, entries)
}

// Load returns the full project blob, or (nil, nil) if no project with the
// id exists. Load observes the result of any Save for the same id started
// earlier in program order, even if that save's I/O has not yet settled.
func (s *Store) Load(ctx context.Context, id string) (*project.SavedProject, error) {
	start := time.Now()
	s.awaitPending(id)

	p, err := s.backend.ReadProject(ctx, id)
	observability.Store().OnLoad(ctx, id, p != nil, time.Since(start), err)
	if err != nil {
		s.logger.Error("load project failed", "id", id, "err", err)
		return nil, lerrors.Wrap(lerrors.ErrCodeStorage, err, "load project %s", id)
	}
	return p, nil
}

// Delete removes the blob and strips the id from the index.
// Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.awaitPending(id)

	err := s.delete(ctx, id)
	observability.Store().OnDelete(ctx, id, err)
	if err != nil {
		s.logger.Error("delete project failed", "id", id, "err", err)
		return lerrors.Wrap(lerrors.ErrCodeStorage, err, "delete project %s", id)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteProject(ctx, id); err != nil {
		return err
	}
	entries, err := s.backend.ReadIndex(ctx)
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return s.backend.WriteIndex(ctx, kept)
}

// List returns all index entries sorted by UpdatedAt descending.
func (s *Store) List(ctx context.Context) ([]project.Metadata, error) {
	entries, err := s.backend.ReadIndex(ctx)
	if err != nil {
		s.logger.Error("list projects failed", "err", err)
		return nil, lerrors.Wrap(lerrors.ErrCodeStorage, err, "list projects")
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries, nil
}

// ExportAll reads the index and loads every referenced project into a
// backup document.
func (s *Store) ExportAll(ctx context.Context) (*project.DatabaseBackup, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	backup := &project.DatabaseBackup{
		Version:    project.BackupVersion,
		ExportedAt: time.Now().UTC(),
		Projects:   make([]project.SavedProject, 0, len(entries)),
	}
	for _, e := range entries {
		p, err := s.Load(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			s.logger.Warn("index entry without blob skipped", "id", e.ID)
			continue
		}
		backup.Projects = append(backup.Projects, *p)
	}
	return backup, nil
}

// ImportAll wholly replaces both collections with the backup's contents.
// The backup is validated before anything is cleared, so a bad import
// never destroys existing data. The index is rebuilt strictly from the
// imported blobs' own metadata; entries lacking nodes, edges or metadata
// are skipped, not fatal.
func (s *Store) ImportAll(ctx context.Context, backup *project.DatabaseBackup) (int, error) {
	if backup == nil || backup.Projects == nil {
		return 0, lerrors.New(lerrors.ErrCodeInvalidBackup, "backup has no projects array")
	}

	if err := s.backend.Reset(ctx); err != nil {
		s.logger.Error("clear store failed", "err", err)
		return 0, lerrors.Wrap(lerrors.ErrCodeStorage, err, "clear store")
	}

	entries := make([]project.Metadata, 0, len(backup.Projects))
	imported := 0
	for i := range backup.Projects {
		p := &backup.Projects[i]
		if !p.Valid() {
			s.logger.Warn("invalid backup entry skipped", "index", i)
			continue
		}
		if err := s.backend.WriteProject(ctx, p); err != nil {
			return imported, lerrors.Wrap(lerrors.ErrCodeStorage, err, "import project %s", p.Metadata.ID)
		}
		entries = append(entries, p.Metadata)
		imported++
	}

	if err := s.backend.WriteIndex(ctx, entries); err != nil {
		return imported, lerrors.Wrap(lerrors.ErrCodeStorage, err, "rebuild index")
	}
	s.logger.Info("backup imported", "projects", imported, "skipped", len(backup.Projects)-imported)
	return imported, nil
}
