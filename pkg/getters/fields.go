package getters

import (
	"fmt"

	"github.com/ferreusveritas/dynamictrees/pkg/errors"
)

// Fields reads typed keys out of one decoded object. The first failure is
// kept and every later read returns the zero value.
type Fields struct {
	reg  *Registry
	path string
	obj  Object
	err  error
}

// Fields returns a reader over obj. path prefixes failure messages, for
// example "species[2]".
func (r *Registry) Fields(path string, obj Object) *Fields {
	return &Fields{reg: r, path: path, obj: obj}
}

// Path returns the prefix used in failure messages.
func (f *Fields) Path() string { return f.path }

// Object returns the underlying object.
func (f *Fields) Object() Object { return f.obj }

// Has reports whether key is present.
func (f *Fields) Has(key string) bool {
	_, ok := f.obj[key]
	return ok
}

// Err returns the first failure as an INVALID_CONFIG error, or nil.
func (f *Fields) Err() error { return f.err }

// Fail records a failure for key unless one is already recorded.
func (f *Fields) Fail(key, format string, args ...any) {
	if f.err == nil {
		f.err = errors.New(errors.ErrCodeInvalidConfig, "%s: %s", f.join(key), fmt.Sprintf(format, args...))
	}
}

func (f *Fields) join(key string) string {
	switch {
	case f.path == "":
		return key
	case key == "":
		return f.path
	}
	return f.path + "." + key
}

// Required decodes key as T and fails when it is missing.
func Required[T any](f *Fields, key string) T {
	var zero T
	if f.err != nil {
		return zero
	}
	v, ok := f.obj[key]
	if !ok {
		f.Fail(key, "missing required field")
		return zero
	}
	return decode[T](f, key, v)
}

// Optional decodes key as T, returning def when it is missing.
func Optional[T any](f *Fields, key string, def T) T {
	if f.err != nil {
		return def
	}
	v, ok := f.obj[key]
	if !ok {
		return def
	}
	return decode[T](f, key, v)
}

func decode[T any](f *Fields, key string, v any) T {
	res := Get[T](f.reg, v)
	if !res.OK() {
		f.Fail(key, "%s", res.Err())
	}
	return res.Value()
}

// Each decodes key as an array of objects and calls fn with a reader for
// each element. A missing key is an empty array.
func Each(f *Fields, key string, fn func(*Fields)) {
	arr := Optional[Array](f, key, nil)
	for i, a := range arr {
		if f.err != nil {
			return
		}
		obj, ok := Get[Object](f.reg, a).Get()
		if !ok {
			f.Fail(fmt.Sprintf("%s[%d]", key, i), "expected object, got %s", typeName(a))
			return
		}
		sub := f.reg.Fields(f.join(fmt.Sprintf("%s[%d]", key, i)), obj)
		fn(sub)
		if sub.err != nil {
			f.err = sub.err
		}
	}
}
