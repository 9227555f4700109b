package cache

// ScopedKeyer wraps a Keyer with a prefix, keeping keys written by
// different tools or versions apart in one cache directory.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "dyntrees:"+buildinfo.Version+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// NetworkKey generates a prefixed key for a rendered network.
func (k *ScopedKeyer) NetworkKey(sceneHash, root string, opts NetworkKeyOpts) string {
	return k.prefix + k.inner.NetworkKey(sceneHash, root, opts)
}
