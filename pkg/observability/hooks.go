// Package observability provides hooks for metrics, tracing, and logging.
//
// The package uses a simple hooks pattern: hook interfaces for the event
// categories the engine emits, no-op default implementations, and a
// registry populated by main at startup. Libraries call the hooks; they
// never depend on a concrete observability backend, so OpenTelemetry,
// Prometheus or plain logging can all be plugged in without touching the
// engine.
//
// # Usage
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the lineage pipeline.
type PipelineHooks interface {
	// Build events
	OnBuildStart(ctx context.Context, source string)
	OnBuildComplete(ctx context.Context, source string, nodeCount, edgeCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, nodeCount int)
	OnLayoutComplete(ctx context.Context, duration time.Duration)
}

// StoreHooks receives events from persistence operations.
type StoreHooks interface {
	OnSave(ctx context.Context, projectID string, duration time.Duration, err error)
	OnLoad(ctx context.Context, projectID string, found bool, duration time.Duration, err error)
	OnDelete(ctx context.Context, projectID string, err error)
}

// noopPipelineHooks is the default PipelineHooks implementation.
type noopPipelineHooks struct{}

func (noopPipelineHooks) OnBuildStart(context.Context, string) {}
func (noopPipelineHooks) OnBuildComplete(context.Context, string, int, int, time.Duration, error) {
}
func (noopPipelineHooks) OnLayoutStart(context.Context, int)             {}
func (noopPipelineHooks) OnLayoutComplete(context.Context, time.Duration) {}

// noopStoreHooks is the default StoreHooks implementation.
type noopStoreHooks struct{}

func (noopStoreHooks) OnSave(context.Context, string, time.Duration, error)       {}
func (noopStoreHooks) OnLoad(context.Context, string, bool, time.Duration, error) {}
func (noopStoreHooks) OnDelete(context.Context, string, error)                    {}

var (
	mu            sync.RWMutex
	pipelineHooks PipelineHooks = noopPipelineHooks{}
	storeHooks    StoreHooks    = noopStoreHooks{}
)

// SetPipelineHooks registers pipeline hooks. Pass nil to restore the no-op
// default. Call at startup, before the pipeline runs.
func SetPipelineHooks(h PipelineHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		pipelineHooks = noopPipelineHooks{}
		return
	}
	pipelineHooks = h
}

// SetStoreHooks registers store hooks. Pass nil to restore the no-op
// default.
func SetStoreHooks(h StoreHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		storeHooks = noopStoreHooks{}
		return
	}
	storeHooks = h
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return pipelineHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	mu.RLock()
	defer mu.RUnlock()
	return storeHooks
}
