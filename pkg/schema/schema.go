package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidatorFunc is an extra check run after a field's pipeline succeeds.
// It receives the record being populated and the validated value.
type ValidatorFunc func(r *Record, value any) error

// GetterFunc computes the value returned by Record.Get for a field. Calling
// r.Get for the same field inside the getter returns the stored value.
type GetterFunc func(r *Record) any

// SetterFunc receives a validated value before it is stored. A non-nil
// result replaces the stored value; nil keeps the validated one. Calling
// r.Set for the same field inside the setter validates and stores directly.
type SetterFunc func(r *Record, value any) (any, error)

// attribute is one declared member of a schema: either a field or a
// nested schema reference.
type attribute struct {
	name          string
	field         *Field
	object        *Schema
	objectDefault func() (*Record, error)
}

// key is the name used in serialized output.
func (a *attribute) key() string {
	if a.field != nil && a.field.alias != "" {
		return a.field.alias
	}
	return a.name
}

// Schema is a record type: an ordered table of declared attributes plus
// hook tables, fixed once Define succeeds.
// A defined schema is read-only and safe for concurrent use; records are not.
type Schema struct {
	name    string
	defined bool

	attrs   []*attribute
	index   map[string]*attribute
	aliases map[string]string
	parents []*Schema

	validators map[string][]ValidatorFunc
	getters    map[string]GetterFunc
	setters    map[string]SetterFunc
	messages   map[string]string
}

type hookKind int

const (
	hookValidator hookKind = iota
	hookGetter
	hookSetter
)

type hook struct {
	kind      hookKind
	field     string
	validator ValidatorFunc
	getter    GetterFunc
	setter    SetterFunc
}

type definition struct {
	parents  []*Schema
	attrs    []*attribute
	hooks    []hook
	messages map[string]string
	errs     []error
}

// Option contributes declarations to a schema definition.
type Option func(*definition)

// Extends inherits the attributes and hooks of parents, merged in order
// before the schema's own declarations.
func Extends(parents ...*Schema) Option {
	return func(d *definition) {
		for _, p := range parents {
			if p == nil {
				d.errs = append(d.errs, fmt.Errorf("%w: nil parent schema", ErrNilField))
				continue
			}
			d.parents = append(d.parents, p)
		}
	}
}

// Attr declares a field attribute.
func Attr(name string, f *Field) Option {
	return func(d *definition) {
		switch {
		case name == "":
			d.errs = append(d.errs, fmt.Errorf("%w: attribute", ErrEmptyName))
		case f == nil:
			d.errs = append(d.errs, fmt.Errorf("%w: %s", ErrNilField, name))
		default:
			d.attrs = append(d.attrs, &attribute{name: name, field: f.named(name)})
		}
	}
}

// Object declares a nested schema attribute. Values may be mappings, which
// are built into records, or records of that schema. Omitted values are
// built from an empty mapping.
func Object(name string, s *Schema) Option {
	return ObjectDefault(name, s, nil)
}

// ObjectDefault declares a nested schema attribute whose omitted value is
// produced by fn.
func ObjectDefault(name string, s *Schema, fn func() (*Record, error)) Option {
	return func(d *definition) {
		switch {
		case name == "":
			d.errs = append(d.errs, fmt.Errorf("%w: attribute", ErrEmptyName))
		case s == nil:
			d.errs = append(d.errs, fmt.Errorf("%w: %s", ErrNilField, name))
		default:
			d.attrs = append(d.attrs, &attribute{name: name, object: s, objectDefault: fn})
		}
	}
}

// Validator registers an extra check for field. Multiple validators run in
// registration order, inherited ones first.
func Validator(field string, fn ValidatorFunc) Option {
	return func(d *definition) {
		d.hooks = append(d.hooks, hook{kind: hookValidator, field: field, validator: fn})
	}
}

// Getter registers the read hook for field, replacing an inherited one.
func Getter(field string, fn GetterFunc) Option {
	return func(d *definition) {
		d.hooks = append(d.hooks, hook{kind: hookGetter, field: field, getter: fn})
	}
}

// Setter registers the write hook for field, replacing an inherited one.
func Setter(field string, fn SetterFunc) Option {
	return func(d *definition) {
		d.hooks = append(d.hooks, hook{kind: hookSetter, field: field, setter: fn})
	}
}

// WithMessages overrides the schema-level templates ("missing_field",
// "invalid_nested").
func WithMessages(m map[string]string) Option {
	return func(d *definition) {
		if d.messages == nil {
			d.messages = make(map[string]string, len(m))
		}
		for k, v := range m {
			d.messages[k] = v
		}
	}
}

// Declare creates an undefined schema. Declared schemas can be referenced
// by other definitions, including their own, before Define is called.
func Declare(name string) *Schema {
	return &Schema{name: name}
}

// New declares and defines a schema in one step.
func New(name string, opts ...Option) (*Schema, error) {
	s := Declare(name)
	if err := s.Define(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is like New but panics on a definition error.
func MustNew(name string, opts ...Option) *Schema {
	s, err := New(name, opts...)
	if err != nil {
		panic(fmt.Sprintf("schema %q: %v", name, err))
	}
	return s
}

// Define builds the attribute and hook tables. Parents are merged first,
// in order; a later declaration of the same name replaces the earlier one
// in place.
func (s *Schema) Define(opts ...Option) error {
	if s.name == "" {
		return fmt.Errorf("%w: schema", ErrEmptyName)
	}
	if s.defined {
		return fmt.Errorf("%w: %s", ErrAlreadyDefined, s.name)
	}

	d := &definition{}
	for _, opt := range opts {
		opt(d)
	}
	if len(d.errs) > 0 {
		return fmt.Errorf("schema %s: %w", s.name, errors.Join(d.errs...))
	}

	s.index = make(map[string]*attribute)
	s.aliases = make(map[string]string)
	s.validators = make(map[string][]ValidatorFunc)
	s.getters = make(map[string]GetterFunc)
	s.setters = make(map[string]SetterFunc)
	s.messages = make(map[string]string)
	s.attrs = nil
	s.parents = nil

	for _, p := range d.parents {
		if !p.defined {
			return fmt.Errorf("schema %s: %w: parent %s", s.name, ErrNotDefined, p.name)
		}
		s.parents = append(s.parents, p)
		for _, a := range p.attrs {
			s.mergeAttr(a)
		}
		for name, fns := range p.validators {
			s.validators[name] = append(s.validators[name], fns...)
		}
		for name, fn := range p.getters {
			s.getters[name] = fn
		}
		for name, fn := range p.setters {
			s.setters[name] = fn
		}
		for k, v := range p.messages {
			s.messages[k] = v
		}
	}
	for _, a := range d.attrs {
		s.mergeAttr(a)
	}
	for k, v := range d.messages {
		s.messages[k] = v
	}

	for _, a := range s.attrs {
		if alias := a.key(); alias != a.name {
			s.aliases[alias] = a.name
		}
	}

	var errs []error
	for _, h := range d.hooks {
		if _, ok := s.index[h.field]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s.%s", ErrUnknownField, s.name, h.field))
			continue
		}
		switch h.kind {
		case hookValidator:
			if h.validator != nil {
				s.validators[h.field] = append(s.validators[h.field], h.validator)
			}
		case hookGetter:
			if h.getter != nil {
				s.getters[h.field] = h.getter
			}
		case hookSetter:
			if h.setter != nil {
				s.setters[h.field] = h.setter
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	s.defined = true
	return nil
}

func (s *Schema) mergeAttr(a *attribute) {
	if existing, ok := s.index[a.name]; ok {
		for i, cur := range s.attrs {
			if cur == existing {
				s.attrs[i] = a
				break
			}
		}
		s.index[a.name] = a
		return
	}
	s.attrs = append(s.attrs, a)
	s.index[a.name] = a
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// IsDefined reports whether Define has succeeded.
func (s *Schema) IsDefined() bool { return s.defined }

// Fields returns the declared attribute names in declaration order.
func (s *Schema) Fields() []string {
	names := make([]string, len(s.attrs))
	for i, a := range s.attrs {
		names[i] = a.name
	}
	return names
}

// Field returns the field declared under name. Nested schema attributes
// are reported by Nested instead.
func (s *Schema) Field(name string) (*Field, bool) {
	a, ok := s.index[name]
	if !ok || a.field == nil {
		return nil, false
	}
	return a.field, true
}

// Nested returns the schema of a nested object attribute.
func (s *Schema) Nested(name string) (*Schema, bool) {
	a, ok := s.index[name]
	if !ok || a.object == nil {
		return nil, false
	}
	return a.object, true
}

// Parents returns the schemas this one extends.
func (s *Schema) Parents() []*Schema {
	return append([]*Schema(nil), s.parents...)
}

// IsA reports whether s is other or inherits from it.
func (s *Schema) IsA(other *Schema) bool {
	if s == other {
		return true
	}
	for _, p := range s.parents {
		if p.IsA(other) {
			return true
		}
	}
	return false
}

func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString(s.name)
	b.WriteByte('{')
	for i, a := range s.attrs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.name)
		b.WriteByte(':')
		if a.object != nil {
			b.WriteString(a.object.name)
		} else {
			b.WriteString(string(a.field.typ))
		}
	}
	b.WriteByte('}')
	return b.String()
}

// resolve maps an input key (name or alias) to its attribute.
func (s *Schema) resolve(key string) (*attribute, bool) {
	if a, ok := s.index[key]; ok {
		return a, true
	}
	if name, ok := s.aliases[key]; ok {
		return s.index[name], true
	}
	return nil, false
}

func (s *Schema) fail(kind ErrorKind, params Params) *ValidationError {
	return newKindError(kind, formatMessage(lookupMessage(s.messages, string(kind)), params))
}
