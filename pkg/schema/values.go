package schema

import (
	"math"
	"math/big"
	"reflect"
	"time"
)

// isNumber reports whether v is a Go integer or float. bool is not a number.
func isNumber(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v any) float64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return 0
}

// compareNumbers compares two numbers exactly, so integers beyond 2^53
// and mixed integer/float operands are not rounded. ok is false when
// either side is NaN.
func compareNumbers(a, b any) (int, bool) {
	x, okx := exactNumber(a)
	y, oky := exactNumber(b)
	if !okx || !oky {
		return 0, false
	}
	return x.Cmp(y), true
}

func exactNumber(v any) (*big.Float, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return new(big.Float).SetInt64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Float).SetUint64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return nil, false
		}
		return new(big.Float).SetFloat64(f), true
	}
	return nil, false
}

// valuesEqual compares numbers by value, times by instant, records
// structurally and everything else with reflect.DeepEqual.
func valuesEqual(a, b any) bool {
	return deepEqual(a, b, make(map[[2]*Record]bool))
}

// deepEqual is valuesEqual with the set of record pairs already under
// comparison, so cyclic record graphs terminate.
func deepEqual(a, b any, seen map[[2]*Record]bool) bool {
	if isNumber(a) && isNumber(b) {
		c, ok := compareNumbers(a, b)
		return ok && c == 0
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if ra, ok := a.(*Record); ok {
		rb, ok := b.(*Record)
		return ok && ra.equal(rb, seen)
	}
	la, aok := asSlice(a)
	lb, bok := asSlice(b)
	if aok && bok {
		if la.Len() != lb.Len() {
			return false
		}
		for i := range la.Len() {
			if !deepEqual(la.Index(i).Interface(), lb.Index(i).Interface(), seen) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func containsValue(values []any, v any) bool {
	for _, candidate := range values {
		if valuesEqual(candidate, v) {
			return true
		}
	}
	return false
}

func asSlice(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return rv, true
	}
	return reflect.Value{}, false
}

// asMapping accepts any map keyed by strings, plus the map[any]any shape
// produced by some decoders when every key is a string.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		if k.Kind() == reflect.Interface {
			k = k.Elem()
		}
		if k.Kind() != reflect.String {
			return nil, false
		}
		out[k.String()] = iter.Value().Interface()
	}
	return out, true
}

// lengthOf returns the length of strings (in runes), slices, arrays and maps.
func lengthOf(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return len([]rune(s)), true
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// identity is the key of a value in the visited set.
type identity struct {
	kind reflect.Kind
	ptr  uintptr
	n    int
}

func identityOf(v any) (identity, bool) {
	if v == nil {
		return identity{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		if rv.IsNil() {
			return identity{}, false
		}
		return identity{kind: rv.Kind(), ptr: rv.Pointer()}, true
	case reflect.Slice:
		if rv.Len() == 0 {
			return identity{}, false
		}
		return identity{kind: reflect.Slice, ptr: rv.Pointer(), n: rv.Len()}, true
	}
	return identity{}, false
}

// visited is the working set of values currently being validated within a
// single call tree. A value met again while still active is not walked a
// second time, which keeps cyclic value graphs finite.
type visited struct {
	active   map[identity]any
	building map[*Schema]int
}

func newVisited() *visited {
	return &visited{
		active:   make(map[identity]any),
		building: make(map[*Schema]int),
	}
}

// inside reports whether a record of s is being built further up the
// call tree.
func (s *visited) inside(schema *Schema) bool {
	return s.building[schema] > 0
}

func (s *visited) push(schema *Schema) func() {
	s.building[schema]++
	return func() { s.building[schema]-- }
}

// lookup returns the result registered for v while v is active.
func (s *visited) lookup(v any) (any, bool) {
	id, ok := identityOf(v)
	if !ok {
		return nil, false
	}
	result, ok := s.active[id]
	return result, ok
}

// enter marks v active with the result that a repeated encounter should
// yield, returning the function that removes it again.
func (s *visited) enter(v, result any) func() {
	id, ok := identityOf(v)
	if !ok {
		return func() {}
	}
	s.active[id] = result
	return func() { delete(s.active, id) }
}
