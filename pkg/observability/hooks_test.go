package observability

import (
	"context"
	"testing"
	"time"
)

type recordingStoreHooks struct {
	saves, loads, deletes int
}

func (r *recordingStoreHooks) OnSave(context.Context, string, time.Duration, error) { r.saves++ }
func (r *recordingStoreHooks) OnLoad(context.Context, string, bool, time.Duration, error) {
	r.loads++
}
func (r *recordingStoreHooks) OnDelete(context.Context, string, error) { r.deletes++ }

func TestSetStoreHooks(t *testing.T) {
	rec := &recordingStoreHooks{}
	SetStoreHooks(rec)
	defer SetStoreHooks(nil)

	ctx := context.Background()
	Store().OnSave(ctx, "p1", 0, nil)
	Store().OnLoad(ctx, "p1", true, 0, nil)
	Store().OnDelete(ctx, "p1", nil)

	if rec.saves != 1 || rec.loads != 1 || rec.deletes != 1 {
		t.Errorf("hooks = %+v, want one call each", rec)
	}
}

func TestSetStoreHooks_NilRestoresNoop(t *testing.T) {
	SetStoreHooks(&recordingStoreHooks{})
	SetStoreHooks(nil)

	// Must not panic and must not be the recording implementation.
	Store().OnSave(context.Background(), "p", 0, nil)
	if _, ok := Store().(*recordingStoreHooks); ok {
		t.Error("nil did not restore the no-op hooks")
	}
}

func TestDefaultsAreNoop(t *testing.T) {
	// Fresh registry state: calling through must be safe.
	SetPipelineHooks(nil)
	ctx := context.Background()
	Pipeline().OnBuildStart(ctx, "manifest.json")
	Pipeline().OnBuildComplete(ctx, "manifest.json", 1, 0, time.Millisecond, nil)
	Pipeline().OnLayoutStart(ctx, 1)
	Pipeline().OnLayoutComplete(ctx, time.Millisecond)
}
