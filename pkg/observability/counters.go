package observability

import (
	"context"
	"sync"
	"time"
)

// Counters is an in-memory implementation of the growth and cache hooks
// that tallies events. It is safe for concurrent use.
type Counters struct {
	mu sync.Mutex
	s  Stats
}

// Stats is a snapshot of [Counters].
type Stats struct {
	Traversals    int
	Visits        int
	RootsFound    int
	Ticks         int
	CellsUpdated  int
	CellsRemoved  int
	CellsGrown    int
	FeatureRuns   int
	FeaturePlaced int
	Cycles        int
	CycleErrors   int
	CacheHits     int
	CacheMisses   int
	GrowTime      time.Duration
}

// Install registers c as the analyzer, automaton, feature, cycle and cache
// hooks.
func (c *Counters) Install() {
	SetAnalyzerHooks(c)
	SetAutomatonHooks(c)
	SetFeatureHooks(c)
	SetCycleHooks(c)
	SetCacheHooks(c)
}

// Snapshot returns the current tallies.
func (c *Counters) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}

func (c *Counters) OnTraversal(_ context.Context, _ string, visits int, found bool, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Traversals++
	c.s.Visits += visits
	if found {
		c.s.RootsFound++
	}
}

func (c *Counters) OnTick(_ context.Context, _, updated, removed, grown int, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Ticks++
	c.s.CellsUpdated += updated
	c.s.CellsRemoved += removed
	c.s.CellsGrown += grown
}

func (c *Counters) OnFeature(_ context.Context, _ string, _, placed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.FeatureRuns++
	c.s.FeaturePlaced += placed
}

func (c *Counters) OnCycleStart(context.Context, string) {}

func (c *Counters) OnCycleComplete(_ context.Context, _ string, _ bool, d time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Cycles++
	c.s.GrowTime += d
	if err != nil {
		c.s.CycleErrors++
	}
}

func (c *Counters) OnCacheHit(context.Context, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.CacheHits++
}

func (c *Counters) OnCacheMiss(context.Context, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.CacheMisses++
}

func (c *Counters) OnCacheSet(context.Context, string, int) {}
