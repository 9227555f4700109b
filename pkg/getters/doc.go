// Package getters decodes loosely typed values, as produced by the TOML,
// YAML and JSON decoders, into Go types with precise failure messages.
//
// A [Registry] maps Go types to [Getter]s. Lookups are keyed by type
// parameter:
//
//	reg := getters.NewRegistry()
//	r := getters.Lookup[int](reg).Get(int64(3)) // Result[int]{3}
//
// A lookup for an unregistered type returns a getter that always fails,
// so callers never check for nil.
//
// [Fields] reads a decoded object key by key and keeps the first failure,
// which is how the config loader reports errors such as
// "families[1].max_radius: expected int, got string".
package getters
