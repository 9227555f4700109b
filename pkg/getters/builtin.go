package getters

import (
	"math"
	"reflect"
	"strings"

	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// DefaultNamespace is assumed by resource locations written without one.
const DefaultNamespace = "dynamictrees"

// ResourceLocation is a namespaced name such as "dynamictrees:oak".
type ResourceLocation struct {
	Namespace string
	Path      string
}

// ParseResourceLocation splits s at the first colon. A missing namespace
// becomes DefaultNamespace.
func ParseResourceLocation(s string) (ResourceLocation, bool) {
	ns, path, found := strings.Cut(s, ":")
	if !found {
		ns, path = DefaultNamespace, s
	}
	if ns == "" || path == "" || strings.Contains(path, ":") {
		return ResourceLocation{}, false
	}
	return ResourceLocation{Namespace: ns, Path: path}, true
}

func (l ResourceLocation) String() string { return l.Namespace + ":" + l.Path }

// Short returns the location without the default namespace.
func (l ResourceLocation) Short() string {
	if l.Namespace == DefaultNamespace {
		return l.Path
	}
	return l.String()
}

// Type aliases so object and array getters can be looked up by name.
type (
	Object = map[string]any
	Array  = []any
)

func registerBuiltins(r *Registry) {
	Register[string](r, GetterFunc[string](getString))
	Register[bool](r, GetterFunc[bool](getBool))
	Register[float64](r, GetterFunc[float64](getNumber))
	Register[int](r, GetterFunc[int](getInt))
	Register[Object](r, GetterFunc[Object](getObject))
	Register[Array](r, GetterFunc[Array](getArray))
	Register[[]string](r, ListOf[string](r))
	Register[ResourceLocation](r, GetterFunc[ResourceLocation](getResourceLocation))
	Register[voxel.Face](r, Enum(voxel.ParseFace, "face"))
}

func getString(v any) Result[string] {
	if s, ok := v.(string); ok {
		return Success(s)
	}
	return Failure[string]("expected string, got %s", typeName(v))
}

func getBool(v any) Result[bool] {
	if b, ok := v.(bool); ok {
		return Success(b)
	}
	return Failure[bool]("expected bool, got %s", typeName(v))
}

// getNumber accepts every numeric type a decoder can produce.
func getNumber(v any) Result[float64] {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return Success(rv.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Success(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Success(float64(rv.Uint()))
	}
	return Failure[float64]("expected number, got %s", typeName(v))
}

// getInt accepts integers and whole floats, which is what JSON yields.
func getInt(v any) Result[int] {
	n, ok := getNumber(v).Get()
	if !ok {
		return Failure[int]("expected int, got %s", typeName(v))
	}
	if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return Failure[int]("expected int, got %v", n)
	}
	return Success(int(n))
}

func getObject(v any) Result[Object] {
	switch m := v.(type) {
	case map[string]any:
		return Success(m)
	case nil:
		return Failure[Object]("expected object, got null")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return Failure[Object]("expected object, got %s", typeName(v))
	}
	out := make(Object, rv.Len())
	for it := rv.MapRange(); it.Next(); {
		out[it.Key().String()] = it.Value().Interface()
	}
	return Success(out)
}

// getArray accepts any slice; BurntSushi/toml decodes arrays of tables
// as []map[string]any.
func getArray(v any) Result[Array] {
	if a, ok := v.([]any); ok {
		return Success(a)
	}
	rv := reflect.ValueOf(v)
	if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return Failure[Array]("expected array, got %s", typeName(v))
	}
	out := make(Array, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return Success(out)
}

func getResourceLocation(v any) Result[ResourceLocation] {
	s, ok := getString(v).Get()
	if !ok {
		return Failure[ResourceLocation]("expected resource location, got %s", typeName(v))
	}
	loc, ok := ParseResourceLocation(s)
	if !ok {
		return Failure[ResourceLocation]("invalid resource location %q", s)
	}
	return Success(loc)
}

// Enum returns a getter for a string-named enum.
func Enum[T any](parse func(string) (T, error), kind string) Getter[T] {
	return GetterFunc[T](func(v any) Result[T] {
		s, ok := getString(v).Get()
		if !ok {
			return Failure[T]("expected %s name, got %s", kind, typeName(v))
		}
		e, err := parse(strings.ToLower(s))
		if err != nil {
			return Failure[T]("unknown %s %q", kind, s)
		}
		return Success(e)
	})
}

// Entry returns a getter resolving a name through a registry lookup, such
// as a species or family name.
func Entry[T any](lookup func(string) (T, bool), kind string) Getter[T] {
	return GetterFunc[T](func(v any) Result[T] {
		loc, ok := getResourceLocation(v).Get()
		if !ok {
			return Failure[T]("expected %s name, got %s", kind, typeName(v))
		}
		e, ok := lookup(loc.Short())
		if !ok {
			return Failure[T]("unknown %s %q", kind, loc.Short())
		}
		return Success(e)
	})
}

// ListOf returns a getter decoding an array whose elements all decode as T
// with the getter registered in r at call time.
func ListOf[T any](r *Registry) Getter[[]T] {
	return GetterFunc[[]T](func(v any) Result[[]T] {
		arr, ok := getArray(v).Get()
		if !ok {
			return Failure[[]T]("expected array, got %s", typeName(v))
		}
		elem := Lookup[T](r)
		out := make([]T, 0, len(arr))
		for i, a := range arr {
			res := elem.Get(a)
			if !res.OK() {
				return Failure[[]T]("[%d]: %s", i, res.Err())
			}
			out = append(out, res.Value())
		}
		return Success(out)
	})
}
