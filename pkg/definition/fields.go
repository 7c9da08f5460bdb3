package definition

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/dataschema/pkg/schema"
)

// TypeObject marks an attribute holding a nested record of another schema.
const TypeObject = "object"

var constructors = map[string]func(...schema.FieldOption) *schema.Field{
	string(schema.TypeString):   schema.String,
	string(schema.TypeNumber):   schema.Number,
	string(schema.TypeList):     schema.List,
	string(schema.TypeDate):     schema.Date,
	string(schema.TypeDateTime): schema.DateTime,
	string(schema.TypeEmail):    schema.Email,
	string(schema.TypeUUID):     schema.UUID,
}

// primitives maps list item primitives. "float" is a Number field so YAML
// integers inside a float list are accepted.
var primitives = map[string]func() any{
	"int":    func() any { return schema.TypeOf[int]() },
	"string": func() any { return schema.TypeOf[string]() },
	"bool":   func() any { return schema.TypeOf[bool]() },
	"float":  func() any { return schema.Number() },
}

func (b *batch) attribute(spec FieldSpec) (schema.Option, error) {
	if strings.EqualFold(spec.Type, TypeObject) {
		target, ok := b.lookup(spec.Schema)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, spec.Schema)
		}
		return schema.Object(spec.Name, target), nil
	}
	f, err := b.field(spec)
	if err != nil {
		return nil, err
	}
	return schema.Attr(spec.Name, f), nil
}

func (b *batch) field(spec FieldSpec) (*schema.Field, error) {
	typ := strings.ToLower(spec.Type)
	construct, ok := constructors[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, spec.Type)
	}

	opts := []schema.FieldOption{schema.Location(b.registry.location)}
	if b.registry.catalog != nil {
		opts = append(opts, schema.Messages(b.registry.catalog.FieldMessages(b.registry.lang, typ)))
	}

	if spec.Required {
		opts = append(opts, schema.Required())
	}
	if spec.Default != nil {
		opts = append(opts, schema.Default(spec.Default))
	}
	if spec.Alias != "" {
		opts = append(opts, schema.Alias(spec.Alias))
	}
	if spec.MinLength != nil {
		opts = append(opts, schema.MinLength(*spec.MinLength))
	}
	if spec.MaxLength != nil {
		opts = append(opts, schema.MaxLength(*spec.MaxLength))
	}
	if spec.MinValue != nil {
		opts = append(opts, schema.MinValue(*spec.MinValue))
	}
	if spec.MaxValue != nil {
		opts = append(opts, schema.MaxValue(*spec.MaxValue))
	}
	if len(spec.Choices) > 0 {
		opts = append(opts, schema.Choices(spec.Choices...))
	}
	if spec.Regex != "" {
		if _, err := regexp.Compile(spec.Regex); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
		}
		opts = append(opts, schema.Regex(spec.Regex))
	}

	if len(spec.Formats) > 0 {
		opts = append(opts, schema.Formats(spec.Formats...))
	}
	if spec.OutputFormat != "" {
		opts = append(opts, schema.OutputFormat(spec.OutputFormat))
	}
	if spec.ReturnTimestamp {
		opts = append(opts, schema.ReturnTimestamp())
	}
	if spec.MinDate != "" {
		t, err := b.bound(typ, spec.MinDate, spec.Formats)
		if err != nil {
			return nil, err
		}
		opts = append(opts, schema.MinDate(t))
	}
	if spec.MaxDate != "" {
		t, err := b.bound(typ, spec.MaxDate, spec.Formats)
		if err != nil {
			return nil, err
		}
		opts = append(opts, schema.MaxDate(t))
	}

	if typ == string(schema.TypeList) {
		if spec.Items == nil {
			return nil, ErrMissingItems
		}
		item, err := b.item(*spec.Items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		opts = append(opts, schema.Items(item))
	}

	if len(spec.Messages) > 0 {
		opts = append(opts, schema.Messages(spec.Messages))
	}
	return construct(opts...), nil
}

// item resolves a list item type: a primitive, a bare schema reference, or
// a nested field declaration.
func (b *batch) item(spec ItemSpec) (any, error) {
	if spec.Primitive != "" {
		p, ok := primitives[strings.ToLower(spec.Primitive)]
		if !ok {
			return nil, fmt.Errorf("%w: primitive %q", ErrUnknownType, spec.Primitive)
		}
		return p(), nil
	}
	if spec.Schema != "" && (spec.Type == "" || strings.EqualFold(spec.Type, TypeObject)) {
		s, ok := b.lookup(spec.Schema)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, spec.Schema)
		}
		return s, nil
	}
	return b.field(spec.FieldSpec)
}

// bound parses a date bound with the field's formats, then the default
// layouts for its type.
func (b *batch) bound(typ, value string, formats []string) (time.Time, error) {
	layouts := schema.DateTimeLayouts
	if typ == string(schema.TypeDate) {
		layouts = schema.DateLayouts
	}
	for _, layout := range slices.Concat(formats, layouts) {
		if t, err := time.ParseInLocation(layout, value, b.registry.location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidBound, value)
}
