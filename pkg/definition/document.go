package definition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Document is the top-level shape of a definition file.
type Document struct {
	Schemas []SchemaSpec `yaml:"schemas" json:"schemas"`
}

// SchemaSpec declares one schema.
type SchemaSpec struct {
	Name     string            `yaml:"name" json:"name"`
	Extends  []string          `yaml:"extends,omitempty" json:"extends,omitempty"`
	Fields   []FieldSpec       `yaml:"fields" json:"fields"`
	Messages map[string]string `yaml:"messages,omitempty" json:"messages,omitempty"`
}

// FieldSpec declares one attribute. Type is one of the schema field types
// or "object", which references another schema by name.
type FieldSpec struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Required bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Default  any    `yaml:"default,omitempty" json:"default,omitempty"`
	Alias    string `yaml:"alias,omitempty" json:"alias,omitempty"`

	MinLength *int     `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength *int     `yaml:"max_length,omitempty" json:"max_length,omitempty"`
	MinValue  *float64 `yaml:"min_value,omitempty" json:"min_value,omitempty"`
	MaxValue  *float64 `yaml:"max_value,omitempty" json:"max_value,omitempty"`
	Choices   []any    `yaml:"choices,omitempty" json:"choices,omitempty"`
	Regex     string   `yaml:"regex,omitempty" json:"regex,omitempty"`

	Formats         []string `yaml:"formats,omitempty" json:"formats,omitempty"`
	OutputFormat    string   `yaml:"output_format,omitempty" json:"output_format,omitempty"`
	ReturnTimestamp bool     `yaml:"return_timestamp,omitempty" json:"return_timestamp,omitempty"`
	MinDate         string   `yaml:"min_date,omitempty" json:"min_date,omitempty"`
	MaxDate         string   `yaml:"max_date,omitempty" json:"max_date,omitempty"`

	Schema   string            `yaml:"schema,omitempty" json:"schema,omitempty"`
	Items    *ItemSpec         `yaml:"items,omitempty" json:"items,omitempty"`
	Messages map[string]string `yaml:"messages,omitempty" json:"messages,omitempty"`
}

// ItemSpec describes list items: a primitive Go type, a schema reference or
// a full field declaration.
type ItemSpec struct {
	FieldSpec `yaml:",inline"`
	Primitive string `yaml:"primitive,omitempty" json:"primitive,omitempty"`
}

// Parse decodes a YAML or JSON definition document. Unknown keys are
// rejected so typos in constraint names surface early.
func Parse(ctx context.Context, data []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	var doc Document
	if err := decode(data, &doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	for i, s := range doc.Schemas {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: %w: schema #%d", ErrInvalidDocument, ErrEmptyName, i)
		}
		for j, f := range s.Fields {
			if f.Name == "" {
				return nil, fmt.Errorf("%w: %w: %s field #%d", ErrInvalidDocument, ErrEmptyName, s.Name, j)
			}
		}
	}
	return &doc, nil
}

// decode reads JSON objects with encoding/json, since indented JSON may
// use tabs that YAML rejects, and everything else as YAML.
func decode(data []byte, v any) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}
