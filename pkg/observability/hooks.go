// Package observability provides hooks for metrics and tracing of growth.
//
// Libraries emit events through the registered hooks; main installs an
// implementation at startup. The defaults do nothing, so instrumentation
// costs one interface call when unused and callers never check for nil.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCycleHooks(&myCycleHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Cycle().OnCycleStart(ctx, start.String())
//	// ... grow ...
//	observability.Cycle().OnCycleComplete(ctx, root.String(), found, time.Since(t0), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Growth Hooks
// =============================================================================

// AnalyzerHooks receives events from network traversals.
type AnalyzerHooks interface {
	// OnTraversal records one walk: its purpose ("find_root", "map"), the
	// number of voxels entered and whether a root was reached.
	OnTraversal(ctx context.Context, purpose string, visits int, found bool, duration time.Duration)
}

// AutomatonHooks receives events from cell automaton ticks.
type AutomatonHooks interface {
	OnTick(ctx context.Context, candidates, updated, removed, grown int, duration time.Duration)
}

// FeatureHooks receives events from growth feature generation.
type FeatureHooks interface {
	// OnFeature records one species' feature pass at a trunk.
	OnFeature(ctx context.Context, species string, attempts, placed int)
}

// CycleHooks receives events from growth cycles.
type CycleHooks interface {
	OnCycleStart(ctx context.Context, start string)
	OnCycleComplete(ctx context.Context, root string, found bool, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnalyzerHooks is a no-op implementation of AnalyzerHooks.
type NoopAnalyzerHooks struct{}

func (NoopAnalyzerHooks) OnTraversal(context.Context, string, int, bool, time.Duration) {}

// NoopAutomatonHooks is a no-op implementation of AutomatonHooks.
type NoopAutomatonHooks struct{}

func (NoopAutomatonHooks) OnTick(context.Context, int, int, int, int, time.Duration) {}

// NoopFeatureHooks is a no-op implementation of FeatureHooks.
type NoopFeatureHooks struct{}

func (NoopFeatureHooks) OnFeature(context.Context, string, int, int) {}

// NoopCycleHooks is a no-op implementation of CycleHooks.
type NoopCycleHooks struct{}

func (NoopCycleHooks) OnCycleStart(context.Context, string)                                {}
func (NoopCycleHooks) OnCycleComplete(context.Context, string, bool, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	analyzerHooks  AnalyzerHooks  = NoopAnalyzerHooks{}
	automatonHooks AutomatonHooks = NoopAutomatonHooks{}
	featureHooks   FeatureHooks   = NoopFeatureHooks{}
	cycleHooks     CycleHooks     = NoopCycleHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
)

// SetAnalyzerHooks registers custom analyzer hooks.
func SetAnalyzerHooks(h AnalyzerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analyzerHooks = h
	}
}

// SetAutomatonHooks registers custom automaton hooks.
func SetAutomatonHooks(h AutomatonHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		automatonHooks = h
	}
}

// SetFeatureHooks registers custom feature hooks.
func SetFeatureHooks(h FeatureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		featureHooks = h
	}
}

// SetCycleHooks registers custom cycle hooks.
// This should be called once at application startup before any growth runs.
func SetCycleHooks(h CycleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cycleHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Analyzer returns the registered analyzer hooks.
func Analyzer() AnalyzerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analyzerHooks
}

// Automaton returns the registered automaton hooks.
func Automaton() AutomatonHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return automatonHooks
}

// Feature returns the registered feature hooks.
func Feature() FeatureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return featureHooks
}

// Cycle returns the registered cycle hooks.
func Cycle() CycleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cycleHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	analyzerHooks = NoopAnalyzerHooks{}
	automatonHooks = NoopAutomatonHooks{}
	featureHooks = NoopFeatureHooks{}
	cycleHooks = NoopCycleHooks{}
	cacheHooks = NoopCacheHooks{}
}
