// Package definition builds schemas from declarative YAML or JSON files.
//
// A document lists schemas with their fields and constraints:
//
//	schemas:
//	  - name: Person
//	    fields:
//	      - {name: name, type: string, required: true, min_length: 2}
//	      - {name: email, type: email, alias: emailAddress}
//	      - {name: boss, type: object, schema: Person}
//	      - {name: tags, type: list, items: {type: string, max_length: 10}}
//	      - {name: scores, type: list, items: {primitive: int}}
//	  - name: Employee
//	    extends: [Person]
//	    fields:
//	      - {name: joined, type: date, min_date: "2000-01-01"}
//
// Field types are the schema kinds (string, number, list, date, datetime,
// email, uuid) plus object, which nests another schema. List items are a
// primitive (int, float, string, bool), a schema reference or a field
// declaration of their own.
//
// A Registry defines every schema of a load as one batch. References may
// point forward, to the schema itself, or to schemas registered by an
// earlier load; extends must not form a cycle. A load either registers all
// of its schemas or none.
//
//	reg := definition.NewRegistry(definition.WithCatalog(catalog, "zh"))
//	if err := reg.LoadFile(ctx, "schemas.yaml"); err != nil {
//	    return err
//	}
//	person := reg.MustGet("Person")
//	rec, err := person.New(values)
//
// With a catalog, each field gets the messages of its language, with keys
// scoped by field type (e.g. "email.regex") taking precedence. Messages
// declared in the document override both.
package definition
