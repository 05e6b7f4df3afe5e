package criteria

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Value is either a Scalar or a Sequence of scalars.
type Value interface {
	// Plain returns the JSON compatible form: the scalar itself or a []any.
	Plain() any
	render() string
	clone() Value
}

// Scalar holds a string, a number, a bool or nil.
type Scalar struct {
	v any
}

func String(s string) Scalar {
	return Scalar{v: s}
}

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func Number[N number](n N) Scalar {
	return Scalar{v: n}
}

func (s Scalar) Interface() any {
	return s.v
}

func (s Scalar) Plain() any {
	return cloneLoose(s.v)
}

func (s Scalar) render() string {
	return quote(s.v)
}

func (s Scalar) clone() Value {
	return Scalar{v: cloneLoose(s.v)}
}

func (s Scalar) String() string {
	return s.render()
}

// Sequence is the value of multi-value operators such as in, nin and between.
type Sequence []Scalar

func List(items ...any) Sequence {
	seq := make(Sequence, len(items))
	for i, item := range items {
		seq[i] = scalarOf(item)
	}
	return seq
}

func (s Sequence) Plain() any {
	result := make([]any, len(s))
	for i, item := range s {
		result[i] = item.Plain()
	}
	return result
}

// Elements are quoted one by one and comma-joined without brackets.
func (s Sequence) render() string {
	parts := make([]string, len(s))
	for i, item := range s {
		parts[i] = item.render()
	}
	return strings.Join(parts, ",")
}

func (s Sequence) clone() Value {
	result := make(Sequence, len(s))
	for i, item := range s {
		result[i] = item.clone().(Scalar)
	}
	return result
}

// ValueOf converts loose input into a Value. Slices and arrays become a
// Sequence, identifiers become string scalars, everything else a Scalar.
func ValueOf(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Scalar{}
	case Value:
		return v.clone()
	case uuid.UUID, ulid.ULID, []byte:
		return scalarOf(v)
	}
	if items, ok := toAnySlice(raw); ok {
		return List(items...)
	}
	return scalarOf(raw)
}

func scalarOf(raw any) Scalar {
	switch v := raw.(type) {
	case Scalar:
		return v.clone().(Scalar)
	case uuid.UUID:
		return Scalar{v: v.String()}
	case ulid.ULID:
		return Scalar{v: v.String()}
	case []byte:
		return Scalar{v: string(v)}
	default:
		return Scalar{v: cloneLoose(v)}
	}
}

func toAnySlice(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []byte, string, nil:
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	result := make([]any, rv.Len())
	for i := range result {
		result[i] = rv.Index(i).Interface()
	}
	return result, true
}

// cloneLoose deep-copies maps, slices and arrays of any type and nested
// nodes. Pointers and structs are copied shallowly.
func cloneLoose(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case *Node:
		if v == nil {
			return v
		}
		return v.Clone()
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, item := range v {
			result[k] = cloneLoose(item)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = cloneLoose(item)
		}
		return result
	}
	return cloneReflect(reflect.ValueOf(raw)).Interface()
}

func cloneReflect(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		result := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			result.Index(i).Set(cloneReflect(rv.Index(i)))
		}
		return result
	case reflect.Array:
		result := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			result.Index(i).Set(cloneReflect(rv.Index(i)))
		}
		return result
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		result := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			result.SetMapIndex(iter.Key(), cloneReflect(iter.Value()))
		}
		return result
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		result := reflect.New(rv.Type()).Elem()
		result.Set(reflect.ValueOf(cloneLoose(rv.Elem().Interface())))
		return result
	default:
		return rv
	}
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// quote applies JSON string quoting. Values JSON cannot represent (NaN,
// channels, ...) render as null.
func quote(v any) string {
	b, err := marshalJSON(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// textOf is the textual form of an opaque entry.
func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case error:
		return t.Error()
	default:
		return quote(t)
	}
}
