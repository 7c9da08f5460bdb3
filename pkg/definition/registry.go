package definition

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/dataschema/pkg/i18n"
	"github.com/dmitrymomot/dataschema/pkg/logger"
	"github.com/dmitrymomot/dataschema/pkg/schema"
)

// Registry holds schemas defined from documents, by name. It is safe for
// concurrent use; each load is applied atomically.
type Registry struct {
	catalog  *i18n.Catalog
	lang     string
	location *time.Location
	logger   *slog.Logger

	mu      sync.RWMutex
	schemas map[string]*schema.Schema
	order   []string
}

// Option configures a Registry.
type Option func(*Registry)

// WithCatalog applies messages for lang from catalog to every defined
// field and schema. Messages declared in the document still win.
func WithCatalog(catalog *i18n.Catalog, lang string) Option {
	return func(r *Registry) {
		r.catalog = catalog
		r.lang = lang
	}
}

// WithLocation sets the zone for date fields and date bounds.
func WithLocation(loc *time.Location) Option {
	return func(r *Registry) {
		if loc != nil {
			r.location = loc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		location: time.Local,
		logger:   logger.Discard(),
		schemas:  make(map[string]*schema.Schema),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the schema registered under name.
func (r *Registry) Get(name string) (*schema.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// MustGet is like Get but panics for unknown names.
func (r *Registry) MustGet(name string) *schema.Schema {
	s, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("%v: %s", ErrUnknownSchema, name))
	}
	return s
}

// Names returns registered schema names in definition order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Load parses data and defines its schemas.
func (r *Registry) Load(ctx context.Context, data []byte) error {
	doc, err := Parse(ctx, data)
	if err != nil {
		return err
	}
	return r.Define(ctx, doc)
}

// Define registers the schemas of all docs as one batch: references may
// point forward, across documents, or to schemas loaded earlier. Nothing is
// registered unless every schema is defined.
func (r *Registry) Define(ctx context.Context, docs ...*Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := &batch{
		registry: r,
		specs:    make(map[string]*SchemaSpec),
		declared: make(map[string]*schema.Schema),
		state:    make(map[string]int),
	}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for i := range doc.Schemas {
			spec := &doc.Schemas[i]
			if _, ok := r.schemas[spec.Name]; ok {
				return fmt.Errorf("%w: %s is already registered", ErrDuplicateSchema, spec.Name)
			}
			if _, ok := b.specs[spec.Name]; ok {
				return fmt.Errorf("%w: %s", ErrDuplicateSchema, spec.Name)
			}
			b.specs[spec.Name] = spec
			b.declared[spec.Name] = schema.Declare(spec.Name)
			b.order = append(b.order, spec.Name)
		}
	}

	for _, name := range b.order {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrLoadingCancelled, err)
		}
		if err := b.define(name, nil); err != nil {
			return err
		}
	}

	for _, name := range b.order {
		s := b.declared[name]
		r.schemas[name] = s
		r.order = append(r.order, name)
		r.logger.DebugContext(ctx, "schema defined", logger.Schema(name), logger.Fields(s.Fields()))
	}
	r.logger.InfoContext(ctx, "schemas loaded", slog.Int("count", len(b.order)), logger.Language(r.lang))
	return nil
}

const (
	pending = iota
	defining
	defined
)

// batch tracks one Define call. Schemas are defined parents first; state
// detects extends cycles.
type batch struct {
	registry *Registry
	specs    map[string]*SchemaSpec
	declared map[string]*schema.Schema
	state    map[string]int
	order    []string
}

func (b *batch) lookup(name string) (*schema.Schema, bool) {
	if s, ok := b.declared[name]; ok {
		return s, true
	}
	s, ok := b.registry.schemas[name]
	return s, ok
}

func (b *batch) define(name string, chain []string) error {
	switch b.state[name] {
	case defined:
		return nil
	case defining:
		return fmt.Errorf("%w: %s", ErrInheritanceCycle, formatChain(append(chain, name)))
	}
	b.state[name] = defining
	chain = append(chain, name)

	spec := b.specs[name]
	var opts []schema.Option

	parents := make([]*schema.Schema, 0, len(spec.Extends))
	for _, parent := range spec.Extends {
		p, ok := b.lookup(parent)
		if !ok {
			return fmt.Errorf("%w: %s extends %s", ErrUnknownSchema, name, parent)
		}
		if _, local := b.specs[parent]; local {
			if err := b.define(parent, chain); err != nil {
				return err
			}
		}
		parents = append(parents, p)
	}
	if len(parents) > 0 {
		opts = append(opts, schema.Extends(parents...))
	}

	if b.registry.catalog != nil {
		opts = append(opts, schema.WithMessages(b.registry.catalog.Messages(b.registry.lang)))
	}
	if len(spec.Messages) > 0 {
		opts = append(opts, schema.WithMessages(spec.Messages))
	}

	for _, fs := range spec.Fields {
		opt, err := b.attribute(fs)
		if err != nil {
			return fmt.Errorf("schema %s: field %s: %w", name, fs.Name, err)
		}
		opts = append(opts, opt)
	}

	if err := b.declared[name].Define(opts...); err != nil {
		return err
	}
	b.state[name] = defined
	return nil
}

func formatChain(chain []string) string {
	return strings.Join(chain, " -> ")
}
