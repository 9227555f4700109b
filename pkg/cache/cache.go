// Package cache stores rendered network artifacts between CLI runs.
//
// Keys come from a [Keyer], which hashes everything that determines the
// output: the scene contents, the root and the render options. A changed
// scene therefore never hits a stale entry, and entries need no explicit
// invalidation beyond their TTL.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour

// Keyer builds cache keys.
type Keyer interface {
	// NetworkKey identifies a rendered network graph.
	NetworkKey(sceneHash, root string, opts NetworkKeyOpts) string
}

// NetworkKeyOpts are the render options that change a network artifact.
type NetworkKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
	MaxDepth int    `json:"max_depth,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) NetworkKey(sceneHash, root string, opts NetworkKeyOpts) string {
	return hashKey("network", sceneHash, root, opts)
}

// keyType returns the key's prefix, used to label cache events.
func keyType(key string) string {
	if i := strings.LastIndexByte(key, ':'); i > 0 {
		key = key[:i]
	}
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}
