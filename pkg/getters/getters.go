package getters

import (
	"fmt"
	"reflect"
	"sync"
)

// Result is the outcome of one decode.
type Result[T any] struct {
	value T
	err   string
}

// Success wraps a decoded value.
func Success[T any](v T) Result[T] { return Result[T]{value: v} }

// Failure returns a failed result with a formatted message.
func Failure[T any](format string, args ...any) Result[T] {
	return Result[T]{err: fmt.Sprintf(format, args...)}
}

// OK reports whether the decode succeeded.
func (r Result[T]) OK() bool { return r.err == "" }

// Value returns the decoded value, the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Get returns the value and whether the decode succeeded.
func (r Result[T]) Get() (T, bool) { return r.value, r.OK() }

// Err returns the failure message, or "" on success.
func (r Result[T]) Err() string { return r.err }

// OrElse returns the value, or def on failure.
func (r Result[T]) OrElse(def T) T {
	if r.OK() {
		return r.value
	}
	return def
}

// Getter decodes a raw value into T.
type Getter[T any] interface {
	Get(v any) Result[T]
}

// GetterFunc adapts a function to [Getter].
type GetterFunc[T any] func(v any) Result[T]

func (f GetterFunc[T]) Get(v any) Result[T] { return f(v) }

// Null returns a getter that fails for every input.
func Null[T any]() Getter[T] {
	return GetterFunc[T](func(any) Result[T] {
		return Failure[T]("no getter registered for %s", reflect.TypeFor[T]())
	})
}

// Registry maps Go types to getters. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	getters map[reflect.Type]any
}

// NewRegistry returns a registry holding the built-in getters.
func NewRegistry() *Registry {
	r := &Registry{getters: make(map[reflect.Type]any)}
	registerBuiltins(r)
	return r
}

// Register sets the getter for T, replacing any earlier one.
func Register[T any](r *Registry, g Getter[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getters[reflect.TypeFor[T]()] = g
}

// Lookup returns the getter for T, or [Null] when none is registered.
func Lookup[T any](r *Registry) Getter[T] {
	r.mu.RLock()
	g, ok := r.getters[reflect.TypeFor[T]()]
	r.mu.RUnlock()
	if !ok {
		return Null[T]()
	}
	return g.(Getter[T])
}

// Has reports whether a getter for T is registered.
func Has[T any](r *Registry) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.getters[reflect.TypeFor[T]()]
	return ok
}

// Get decodes v as T using the registered getter.
func Get[T any](r *Registry, v any) Result[T] {
	return Lookup[T](r).Get(v)
}

// typeName names the dynamic type of v for failure messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		return "object"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	}
	return rv.Type().String()
}
