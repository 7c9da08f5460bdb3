package schema

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"time"
)

// FieldType names a field kind. Each kind is a fixed strategy pipeline plus
// an optional pre-check that runs before it.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeNumber   FieldType = "number"
	TypeList     FieldType = "list"
	TypeDate     FieldType = "date"
	TypeDateTime FieldType = "datetime"
	TypeEmail    FieldType = "email"
	TypeUUID     FieldType = "uuid"
)

// EmailPattern is the default pattern applied by Email fields.
const EmailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`

// Numeric is the constraint used by numeric options.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Field is a named, typed constraint set governing the values accepted for
// one schema attribute. Fields are immutable once constructed and may be
// shared between schemas and records.
type Field struct {
	name     string
	typ      FieldType
	required bool

	def     any
	defFunc func() any
	alias   string

	minLength *int
	maxLength *int
	minValue  *float64
	maxValue  *float64
	minBound  any
	maxBound  any
	choices   []any
	itemType  any
	pattern   string
	regex     *regexp.Regexp
	messages  map[string]string

	minTime         *time.Time
	maxTime         *time.Time
	formats         []string
	outputFormat    string
	returnTimestamp bool
	location        *time.Location

	strategies []Strategy
	precheck   func(f *Field, value any) (any, error)
}

// FieldOption configures a Field at construction time.
type FieldOption func(*Field)

// Required makes nil (and the empty string) fail validation.
func Required() FieldOption {
	return func(f *Field) { f.required = true }
}

// Optional reverts Required; fields are optional unless told otherwise.
func Optional() FieldOption {
	return func(f *Field) { f.required = false }
}

// Default sets the value returned for nil input. A func() any is treated as
// a producer and invoked on every use.
func Default(v any) FieldOption {
	return func(f *Field) {
		if fn, ok := v.(func() any); ok {
			f.defFunc = fn
			f.def = nil
			return
		}
		f.def = v
		f.defFunc = nil
	}
}

// DefaultFunc sets a producer invoked each time a default is needed.
func DefaultFunc(fn func() any) FieldOption {
	return func(f *Field) {
		f.defFunc = fn
		f.def = nil
	}
}

// Alias sets the key used for the field in serialized output. Construction
// accepts both the alias and the declared name.
func Alias(alias string) FieldOption {
	return func(f *Field) { f.alias = alias }
}

func MinLength(n int) FieldOption {
	return func(f *Field) { f.minLength = &n }
}

func MaxLength(n int) FieldOption {
	return func(f *Field) { f.maxLength = &n }
}

func MinValue[T Numeric](v T) FieldOption {
	return func(f *Field) {
		x := float64(v)
		f.minValue = &x
		f.minBound = v
	}
}

func MaxValue[T Numeric](v T) FieldOption {
	return func(f *Field) {
		x := float64(v)
		f.maxValue = &x
		f.maxBound = v
	}
}

// Choices restricts values to the given set. Numbers compare by value
// across Go kinds and times compare with time.Time.Equal.
func Choices(values ...any) FieldOption {
	return func(f *Field) { f.choices = append([]any{}, values...) }
}

// Items sets the list item type: a *Schema, a *Field or a reflect.Type.
func Items(itemType any) FieldOption {
	return func(f *Field) { f.itemType = itemType }
}

// Regex sets the pattern a string must match from its first character.
// An invalid pattern panics: misconfigured fields should stop startup, not
// fail at validation time.
func Regex(pattern string) FieldOption {
	return func(f *Field) {
		f.pattern = pattern
		f.regex = regexp.MustCompile(`^(?:` + pattern + `)`)
	}
}

// Messages overrides message templates by key, e.g. "min_length".
func Messages(m map[string]string) FieldOption {
	return func(f *Field) {
		if f.messages == nil {
			f.messages = make(map[string]string, len(m))
		}
		for k, v := range m {
			f.messages[k] = v
		}
	}
}

// MinDate sets an inclusive lower bound for Date fields.
func MinDate(t time.Time) FieldOption {
	return func(f *Field) { f.minTime = &t }
}

// MaxDate sets an inclusive upper bound for Date fields.
func MaxDate(t time.Time) FieldOption {
	return func(f *Field) { f.maxTime = &t }
}

// MinDateTime sets an inclusive lower bound for DateTime fields.
func MinDateTime(t time.Time) FieldOption {
	return MinDate(t)
}

// MaxDateTime sets an inclusive upper bound for DateTime fields.
func MaxDateTime(t time.Time) FieldOption {
	return MaxDate(t)
}

// Formats replaces the candidate layouts tried when parsing date strings.
func Formats(layouts ...string) FieldOption {
	return func(f *Field) { f.formats = append([]string{}, layouts...) }
}

// OutputFormat makes date fields return the validated value formatted with
// layout instead of a time.Time.
func OutputFormat(layout string) FieldOption {
	return func(f *Field) { f.outputFormat = layout }
}

// ReturnTimestamp makes date fields return Unix seconds as int64.
func ReturnTimestamp() FieldOption {
	return func(f *Field) { f.returnTimestamp = true }
}

// Location sets the zone used for timestamps and zone-less strings.
// Defaults to time.Local.
func Location(loc *time.Location) FieldOption {
	return func(f *Field) {
		if loc != nil {
			f.location = loc
		}
	}
}

// Strategies replaces the field's validation pipeline.
func Strategies(strategies ...Strategy) FieldOption {
	return func(f *Field) { f.strategies = append([]Strategy{}, strategies...) }
}

// String creates a string field: required, length, regex, choices.
func String(opts ...FieldOption) *Field {
	return newField(TypeString, nil, opts)
}

// Number creates a numeric field: required, range, choices.
func Number(opts ...FieldOption) *Field {
	return newField(TypeNumber, nil, opts)
}

// List creates a list field: required, length, item validation.
func List(opts ...FieldOption) *Field {
	return newField(TypeList, nil, opts)
}

// Date creates a date field: required, parse, range, choices, output.
// Parsed values are truncated to midnight.
func Date(opts ...FieldOption) *Field {
	return newField(TypeDate, nil, opts)
}

// DateTime creates a datetime field: required, parse, range, choices, output.
func DateTime(opts ...FieldOption) *Field {
	return newField(TypeDateTime, nil, opts)
}

// Email creates a string field preset with EmailPattern and email-specific
// messages. Options passed by the caller override the presets.
func Email(opts ...FieldOption) *Field {
	presets := []FieldOption{
		Regex(EmailPattern),
		Messages(map[string]string{
			string(KindRegex):       "Invalid email address",
			string(KindInvalidType): "Email must be a string",
		}),
	}
	return newField(TypeEmail, presets, opts)
}

// UUID creates a string field that accepts any textual UUID form and
// returns it canonicalized: required, uuid, choices.
func UUID(opts ...FieldOption) *Field {
	return newField(TypeUUID, nil, opts)
}

var pipelines = map[FieldType][]Strategy{
	TypeString:   {RequiredStrategy{}, LengthStrategy{}, RegexStrategy{}, ChoicesStrategy{}},
	TypeEmail:    {RequiredStrategy{}, LengthStrategy{}, RegexStrategy{}, ChoicesStrategy{}},
	TypeNumber:   {RequiredStrategy{}, RangeStrategy{}, ChoicesStrategy{}},
	TypeList:     {RequiredStrategy{}, LengthStrategy{}, ListItemsStrategy{}},
	TypeDate:     {RequiredStrategy{}, DateParseStrategy{}, DateRangeStrategy{}, ChoicesStrategy{}, DateOutputStrategy{}},
	TypeDateTime: {RequiredStrategy{}, DateParseStrategy{}, DateRangeStrategy{}, ChoicesStrategy{}, DateOutputStrategy{}},
	TypeUUID:     {RequiredStrategy{}, UUIDStrategy{}, ChoicesStrategy{}},
}

var expectedTypes = map[FieldType]string{
	TypeString:   "string",
	TypeEmail:    "string",
	TypeUUID:     "string",
	TypeNumber:   "number",
	TypeList:     "list",
	TypeDate:     "date",
	TypeDateTime: "datetime",
}

func newField(typ FieldType, presets, opts []FieldOption) *Field {
	f := &Field{
		typ:        typ,
		location:   time.Local,
		strategies: append([]Strategy{}, pipelines[typ]...),
	}
	switch typ {
	case TypeString, TypeEmail, TypeUUID:
		f.precheck = checkString
	case TypeNumber:
		f.precheck = checkNumber
	}
	for _, opt := range presets {
		opt(f)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func checkString(f *Field, value any) (any, error) {
	if _, ok := value.(string); !ok {
		return nil, f.fail(KindInvalidType, Params{"expected_type": "string"})
	}
	return value, nil
}

func checkNumber(f *Field, value any) (any, error) {
	if n, ok := value.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		if x, err := n.Float64(); err == nil {
			return x, nil
		}
	}
	if !isNumber(value) {
		return nil, f.fail(KindInvalidType, Params{"expected_type": "number"})
	}
	return value, nil
}

// Name returns the attribute name assigned when the field joined a schema.
func (f *Field) Name() string { return f.name }

// Type returns the field kind.
func (f *Field) Type() FieldType { return f.typ }

// Alias returns the serialization key override, if any.
func (f *Field) Alias() string { return f.alias }

// IsRequired reports whether nil input fails validation.
func (f *Field) IsRequired() bool { return f.required }

// Default returns the default value, invoking the producer when one is set.
func (f *Field) Default() any {
	if f.defFunc != nil {
		return f.defFunc()
	}
	return f.def
}

// ErrorMessage renders the template stored under key with params.
// Formatting never fails: a template that cannot be filled is returned raw.
func (f *Field) ErrorMessage(key string, params Params) string {
	return formatMessage(lookupMessage(f.messages, key), params)
}

// Validate runs the field pipeline and returns the validated value.
// Validating the same value twice yields the same result.
func (f *Field) Validate(value any) (any, error) {
	return f.validate(value, newVisited())
}

func (f *Field) validate(value any, seen *visited) (any, error) {
	if f.precheck != nil && value != nil {
		checked, err := f.precheck(f, value)
		if err != nil {
			return nil, err
		}
		value = checked
	}

	for _, strategy := range f.strategies {
		var err error
		if w, ok := strategy.(walker); ok {
			value, err = w.walk(value, f, seen)
		} else {
			value, err = strategy.Validate(value, f)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, SkipRemaining) {
			return value, nil
		}
		if IsValidationError(err) {
			return nil, err
		}
		msg := f.ErrorMessage(string(KindInvalidType), Params{"expected_type": expectedTypes[f.typ]})
		return nil, &ValidationError{
			Message:   msg + ": " + err.Error(),
			FieldName: f.name,
			Kind:      KindInvalidType,
			cause:     err,
		}
	}
	return value, nil
}

// fail builds a validation error from the template stored under kind.
func (f *Field) fail(kind ErrorKind, params Params) *ValidationError {
	err := newKindError(kind, f.ErrorMessage(string(kind), params))
	err.FieldName = f.name
	return err
}

// named returns f when it already carries name, or a copy bearing name.
// Shared fields are never renamed in place once attached to a schema.
func (f *Field) named(name string) *Field {
	if f.name == name {
		return f
	}
	if f.name == "" {
		f.name = name
		return f
	}
	clone := *f
	clone.name = name
	return &clone
}

// Constraints is a read-only snapshot of a field's configuration.
type Constraints struct {
	Type            FieldType
	Required        bool
	Alias           string
	MinLength       *int
	MaxLength       *int
	MinValue        *float64
	MaxValue        *float64
	Choices         []any
	ItemType        any
	Pattern         string
	MinTime         *time.Time
	MaxTime         *time.Time
	Formats         []string
	OutputFormat    string
	ReturnTimestamp bool
	Location        *time.Location
}

// Constraints returns a copy of the field configuration, for custom
// strategies and tooling.
func (f *Field) Constraints() Constraints {
	return Constraints{
		Type:            f.typ,
		Required:        f.required,
		Alias:           f.alias,
		MinLength:       clonePtr(f.minLength),
		MaxLength:       clonePtr(f.maxLength),
		MinValue:        clonePtr(f.minValue),
		MaxValue:        clonePtr(f.maxValue),
		Choices:         append([]any(nil), f.choices...),
		ItemType:        f.itemType,
		Pattern:         f.pattern,
		MinTime:         clonePtr(f.minTime),
		MaxTime:         clonePtr(f.maxTime),
		Formats:         append([]string(nil), f.formats...),
		OutputFormat:    f.outputFormat,
		ReturnTimestamp: f.returnTimestamp,
		Location:        f.location,
	}
}

// TypeOf returns the reflect.Type of T, for use with Items.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
