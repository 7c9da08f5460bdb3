package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Mapper is implemented by values that serialize themselves into a plain
// mapping. Record implements it; ToMap uses it for any nested value.
type Mapper interface {
	ToMap() map[string]any
}

// setter states tracked per field while its setter runs.
const (
	inSetter = iota + 1
	storedInSetter
)

// Record is a live instance of a Schema: a private value store validated
// on every write. Records are not safe for concurrent mutation.
type Record struct {
	schema *Schema
	values map[string]any
	extra  map[string]any

	// lazy holds empty records handed out for unset nested objects. They
	// move into values on their first write.
	lazy     map[string]*Record
	owner    *Record
	ownerKey string

	getting map[string]bool
	setting map[string]int
}

func newRecord(s *Schema) *Record {
	return &Record{
		schema:  s,
		values:  make(map[string]any, len(s.attrs)),
		extra:   make(map[string]any),
		lazy:    make(map[string]*Record),
		getting: make(map[string]bool),
		setting: make(map[string]int),
	}
}

// New constructs a record from a mapping of field names (or aliases) to raw
// values. Required fields must be present, every supplied value is
// validated, omitted fields take their defaults and undeclared keys are
// kept verbatim without validation. No record is returned on failure.
func (s *Schema) New(values map[string]any) (*Record, error) {
	return s.build(values, newVisited())
}

// MustNew is like New but panics on failure.
func (s *Schema) MustNew(values map[string]any) *Record {
	r, err := s.New(values)
	if err != nil {
		panic(fmt.Sprintf("schema %q: %v", s.name, err))
	}
	return r
}

// Decode constructs a record from a JSON object. Integral numbers decode
// as int and the rest as float64.
func (s *Schema) Decode(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.name, err)
	}
	return s.New(normalizeNumbers(values).(map[string]any))
}

func (s *Schema) build(values map[string]any, seen *visited) (*Record, error) {
	if !s.defined {
		return nil, fmt.Errorf("%w: %s", ErrNotDefined, s.name)
	}
	if prev, ok := seen.lookup(values); ok {
		if rec, ok := prev.(*Record); ok {
			return rec, nil
		}
	}

	r := newRecord(s)
	leave := seen.enter(values, r)
	defer leave()
	pop := seen.push(s)
	defer pop()

	// declared names take precedence over aliases of the same field
	input := make(map[string]any, len(values))
	for k, v := range values {
		if _, declared := s.index[k]; declared {
			input[k] = v
		}
	}
	for k, v := range values {
		if _, declared := s.index[k]; declared {
			continue
		}
		if a, ok := s.resolve(k); ok {
			if _, taken := input[a.name]; !taken {
				input[a.name] = v
			}
			continue
		}
		input[k] = v
	}

	for _, a := range s.attrs {
		if a.field == nil || !a.field.required {
			continue
		}
		if _, ok := input[a.name]; !ok {
			err := s.fail(KindMissingField, Params{"field": a.name})
			err.FieldName = a.name
			return nil, err
		}
	}

	for _, a := range s.attrs {
		v, ok := input[a.name]
		if !ok {
			continue
		}
		if err := r.assign(a, v, seen); err != nil {
			return nil, err
		}
	}

	for k, v := range input {
		if _, declared := s.index[k]; !declared {
			r.extra[k] = v
		}
	}

	for _, a := range s.attrs {
		if _, supplied := input[a.name]; supplied {
			continue
		}
		if a.object != nil {
			if a.objectDefault == nil && seen.inside(a.object) {
				continue
			}
			rec, err := a.defaultRecord(seen)
			if err != nil {
				return nil, withSegment(err, a.name)
			}
			if err := r.assign(a, rec, seen); err != nil {
				return nil, err
			}
			continue
		}
		if def := a.field.Default(); def != nil {
			if err := r.assign(a, def, seen); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

func (a *attribute) defaultRecord(seen *visited) (*Record, error) {
	if a.objectDefault != nil {
		return a.objectDefault()
	}
	return a.object.build(map[string]any{}, seen)
}

// convert runs the attribute's validation and the schema validators for it
// without storing anything.
func (s *Schema) convert(r *Record, a *attribute, value any, seen *visited) (any, error) {
	var out any
	if a.object != nil {
		rec, err := a.object.coerce(a.name, value, seen)
		if err != nil {
			return nil, err
		}
		out = rec
	} else {
		validated, err := a.field.validate(value, seen)
		if err != nil {
			return nil, err
		}
		out = validated
	}

	for _, fn := range s.validators[a.name] {
		if err := fn(r, out); err != nil {
			return nil, toValidationError(err)
		}
	}
	return out, nil
}

// coerce turns a mapping or a compatible record into a validated record.
func (s *Schema) coerce(field string, value any, seen *visited) (*Record, error) {
	if m, ok := asMapping(value); ok {
		return s.build(m, seen)
	}
	if rec, ok := value.(*Record); ok && rec != nil && rec.schema.IsA(s) {
		if err := rec.revalidate(seen); err != nil {
			return nil, err
		}
		return rec, nil
	}
	err := s.fail(KindInvalidNested, Params{"schema": s.name, "field": field})
	err.FieldName = field
	return nil, err
}

// assign validates value for a, passes it through the setter and stores it.
// The store is untouched when any step fails.
func (r *Record) assign(a *attribute, value any, seen *visited) error {
	reentrant := r.setting[a.name] != 0
	validated, err := r.schema.convert(r, a, value, seen)
	if err != nil {
		if reentrant {
			// the enclosing assign adds the segment
			return toValidationError(err)
		}
		return withSegment(err, a.name)
	}

	setter, ok := r.schema.setters[a.name]
	if !ok || reentrant {
		delete(r.lazy, a.name)
		r.values[a.name] = validated
		if r.setting[a.name] == inSetter {
			r.setting[a.name] = storedInSetter
		}
		return nil
	}

	r.setting[a.name] = inSetter
	result, err := setter(r, validated)
	state := r.setting[a.name]
	delete(r.setting, a.name)
	if err != nil {
		return withSegment(err, a.name)
	}
	delete(r.lazy, a.name)
	switch {
	case result != nil:
		r.values[a.name] = result
	case state == storedInSetter:
	default:
		r.values[a.name] = validated
	}
	return nil
}

// revalidate re-runs validation over the stored values of an existing
// record that is being attached to another one.
func (r *Record) revalidate(seen *visited) error {
	if _, active := seen.lookup(r); active {
		return nil
	}
	leave := seen.enter(r, r)
	defer leave()

	for _, a := range r.schema.attrs {
		v, ok := r.values[a.name]
		if !ok {
			continue
		}
		if _, err := r.schema.convert(r, a, v, seen); err != nil {
			return withSegment(err, a.name)
		}
	}
	return nil
}

// Schema returns the record type.
func (r *Record) Schema() *Schema { return r.schema }

// Fields returns the declared attribute names of the record's schema.
func (r *Record) Fields() []string { return r.schema.Fields() }

// Set validates value and stores it under name. Undeclared names are stored
// verbatim as extra attributes. On failure the previous value is kept.
func (r *Record) Set(name string, value any) error {
	a, ok := r.schema.resolve(name)
	if !ok {
		r.extra[name] = value
		r.attach()
		return nil
	}
	if err := r.assign(a, value, newVisited()); err != nil {
		return err
	}
	r.attach()
	return nil
}

// attach stores a lazily handed out record in its owner, and the owner in
// its own owner, once the record has been written to.
func (r *Record) attach() {
	o := r.owner
	if o == nil {
		return
	}
	r.owner = nil
	if o.lazy[r.ownerKey] != r {
		return
	}
	delete(o.lazy, r.ownerKey)
	o.values[r.ownerKey] = r
	o.attach()
}

// Get returns the value of name, through its getter when one is registered.
// Inside that getter Get(name) returns the stored value.
func (r *Record) Get(name string) any {
	a, ok := r.schema.resolve(name)
	if !ok {
		return r.extra[name]
	}
	if getter, ok := r.schema.getters[a.name]; ok && !r.getting[a.name] {
		r.getting[a.name] = true
		defer delete(r.getting, a.name)
		return getter(r)
	}
	return r.Raw(a.name)
}

// Raw returns the stored value of name, bypassing getters. Unset fields
// resolve to their default; unset nested objects to an empty record that
// becomes stored once something is set on it. Reading alone leaves the
// record's equality and serialization unchanged.
func (r *Record) Raw(name string) any {
	a, ok := r.schema.resolve(name)
	if !ok {
		return r.extra[name]
	}
	if v, ok := r.values[a.name]; ok {
		return v
	}
	if a.object != nil {
		if rec, ok := r.lazy[a.name]; ok {
			return rec
		}
		rec := a.object.empty()
		rec.owner, rec.ownerKey = r, a.name
		r.lazy[a.name] = rec
		return rec
	}
	return a.field.Default()
}

// Lookup is like Get but reports whether name is declared or was set as an
// extra attribute.
func (r *Record) Lookup(name string) (any, bool) {
	if _, ok := r.schema.resolve(name); ok {
		return r.Get(name), true
	}
	v, ok := r.extra[name]
	return v, ok
}

// Has reports whether a value is stored for name.
func (r *Record) Has(name string) bool {
	if a, ok := r.schema.resolve(name); ok {
		_, stored := r.values[a.name]
		return stored
	}
	_, ok := r.extra[name]
	return ok
}

// Extra returns a copy of the undeclared attributes.
func (r *Record) Extra() map[string]any {
	return maps.Clone(r.extra)
}

// empty builds a record holding only field defaults, without enforcing
// required fields or running validators. It backs reads of unset nested
// objects; its own nested objects stay unset until read.
func (s *Schema) empty() *Record {
	r := newRecord(s)
	for _, a := range s.attrs {
		if a.field == nil {
			continue
		}
		if def := a.field.Default(); def != nil {
			r.values[a.name] = def
		}
	}
	return r
}

// stored returns the stored value of a, or its default. Unset nested
// objects yield nil.
func (r *Record) stored(a *attribute) (any, bool) {
	if v, ok := r.values[a.name]; ok {
		return v, true
	}
	if a.field != nil {
		if def := a.field.Default(); def != nil {
			return def, true
		}
	}
	return nil, false
}

// ToMap serializes every declared field (stored value or non-nil default)
// and every extra attribute into plain maps and slices. Unset nested
// objects are omitted. A record reached again through a reference cycle
// serializes as nil.
func (r *Record) ToMap() map[string]any {
	return r.toMap(make(map[*Record]bool))
}

func (r *Record) toMap(active map[*Record]bool) map[string]any {
	active[r] = true
	defer delete(active, r)

	out := make(map[string]any, len(r.schema.attrs)+len(r.extra))
	for _, a := range r.schema.attrs {
		v, ok := r.stored(a)
		if !ok {
			continue
		}
		out[a.key()] = serialize(v, active)
	}
	for k, v := range r.extra {
		out[k] = serialize(v, active)
	}
	return out
}

// MarshalJSON encodes ToMap.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// Equal reports whether other has the same schema and equal stored values
// for every declared field. Extra attributes are not compared.
func (r *Record) Equal(other *Record) bool {
	return r.equal(other, make(map[[2]*Record]bool))
}

func (r *Record) equal(other *Record, seen map[[2]*Record]bool) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil || r.schema != other.schema {
		return false
	}
	pair := [2]*Record{r, other}
	if seen[pair] {
		return true
	}
	seen[pair] = true
	for _, a := range r.schema.attrs {
		va, _ := r.stored(a)
		vb, _ := other.stored(a)
		if !deepEqual(va, vb, seen) {
			return false
		}
	}
	return true
}

// String renders TypeName(field=value, ...) over declared fields.
func (r *Record) String() string {
	return r.repr(make(map[*Record]bool))
}

func (r *Record) repr(active map[*Record]bool) string {
	if active[r] {
		return r.schema.name + "(...)"
	}
	active[r] = true
	defer delete(active, r)

	parts := make([]string, 0, len(r.schema.attrs))
	for _, a := range r.schema.attrs {
		v, _ := r.stored(a)
		parts = append(parts, a.name+"="+reprValue(v, active))
	}
	return r.schema.name + "(" + strings.Join(parts, ", ") + ")"
}

func reprValue(v any, active map[*Record]bool) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", val)
	case *Record:
		return val.repr(active)
	}
	if list, ok := asSlice(v); ok {
		items := make([]string, list.Len())
		for i := range list.Len() {
			items[i] = reprValue(list.Index(i).Interface(), active)
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	return fmt.Sprintf("%v", v)
}

func serialize(v any, active map[*Record]bool) any {
	switch val := v.(type) {
	case nil:
		return nil
	case *Record:
		if active[val] {
			return nil
		}
		return val.toMap(active)
	case Mapper:
		return val.ToMap()
	case []byte:
		return val
	}
	if list, ok := asSlice(v); ok {
		out := make([]any, list.Len())
		for i := range list.Len() {
			out[i] = serialize(list.Index(i).Interface(), active)
		}
		return out
	}
	if m, ok := asMapping(v); ok {
		out := make(map[string]any, len(m))
		for _, k := range slices.Sorted(maps.Keys(m)) {
			out[k] = serialize(m[k], active)
		}
		return out
	}
	return v
}

// normalizeNumbers replaces json.Number values with int or float64.
func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil && int64(int(i)) == i {
			return int(i)
		}
		if x, err := val.Float64(); err == nil {
			return x
		}
		return val.String()
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeNumbers(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalizeNumbers(item)
		}
		return val
	}
	return v
}
