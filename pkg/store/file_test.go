package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFileBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend() error: %v", err)
	}
	st := New(backend, log.New(io.Discard))

	p := testProject("on-disk")
	if err := st.Save(ctx, p); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := st.Load(ctx, p.Metadata.ID)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got == nil || got.Metadata.Name != "on-disk" {
		t.Fatalf("Load() = %v, want the saved project", got)
	}

	// A second store over the same directory sees the same data.
	backend2, err := NewFileBackend(backend.Path())
	if err != nil {
		t.Fatal(err)
	}
	st2 := New(backend2, log.New(io.Discard))
	entries, err := st2.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != p.Metadata.ID {
		t.Errorf("entries = %v, want the saved project", entries)
	}
}

func TestFileBackend_PathHostileIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatal(err)
	}
	st := New(backend, log.New(io.Discard))

	p := testProject("p")
	p.Metadata.ID = "model.jaffle/../escape"
	if err := st.Save(ctx, p); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := st.Load(ctx, p.Metadata.ID)
	if err != nil || got == nil {
		t.Fatalf("Load() = (%v, %v), want project", got, err)
	}

	// Nothing may have been written outside the projects dir.
	outside := filepath.Join(dir, "..", "escape.json")
	if _, err := os.Stat(outside); err == nil {
		t.Error("blob escaped the store directory")
	}
}

func TestFileBackend_ResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	st := New(backend, log.New(io.Discard))

	if err := st.Save(ctx, testProject("p")); err != nil {
		t.Fatal(err)
	}
	if err := backend.Reset(ctx); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}

	entries, err := st.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("entries after reset = %d, want 0", len(entries))
	}

	// The backend stays usable after a reset.
	if err := st.Save(ctx, testProject("again")); err != nil {
		t.Errorf("Save after reset: %v", err)
	}
}
