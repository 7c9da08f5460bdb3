// Package schema provides declarative record types whose fields validate
// every value written to them.
//
// A Schema is an ordered table of typed fields (String, Number, List, Date,
// DateTime, Email, UUID) and nested schema references, plus optional
// validator, getter and setter hooks keyed by field name. Records built from
// a schema hold validated values only: construction fails on the first
// invalid field and a failed Set leaves the previous value in place.
//
// # Architecture
//
// Each field owns a pipeline of stateless Strategy values chosen by its
// kind. A strategy receives the output of the previous one and may
// transform it, so a Date field parses a string into a time.Time, checks
// its bounds and finally applies the output format. Custom pipelines are
// installed with the Strategies option.
//
// Schemas are defined in two phases. Declare returns a named placeholder
// that other definitions, including its own, may reference; Define fills in
// the attribute and hook tables. New does both in one call:
//
//	address := schema.MustNew("Address",
//	    schema.Attr("city", schema.String(schema.Required())),
//	)
//	person := schema.MustNew("Person",
//	    schema.Attr("name", schema.String(schema.Required(), schema.MinLength(2))),
//	    schema.Attr("age", schema.Number(schema.MinValue(0), schema.MaxValue(150))),
//	    schema.Attr("tags", schema.List(schema.Items(schema.TypeOf[string]()))),
//	    schema.Object("address", address),
//	)
//
//	rec, err := person.New(map[string]any{"name": "Ann", "age": 30})
//
// Extends merges parent attributes and hooks before the schema's own
// declarations; the most specific declaration of a name wins.
//
// # Error Handling
//
// Every validation failure is a *ValidationError carrying a message, the
// failing field name and the path from the root record (for example
// ["employees", "2", "email"]). Use errors.Is with ErrValidationFailed or
// with a kind sentinel such as ErrRequired or ErrRange, and
// AsValidationError to read the details. Definition problems (undefined
// parents, hooks on undeclared fields) are reported by Define as plain
// errors wrapping ErrNotDefined, ErrUnknownField and friends.
//
// Error messages are templates with {placeholder} substitution. Field-level
// overrides are set with Messages, schema-level ones with WithMessages, and
// DefaultMessages holds the built-in set.
//
// # Concurrency
//
// A defined Schema is immutable and may be shared across goroutines.
// Records are plain mutable values and need external synchronization.
package schema
