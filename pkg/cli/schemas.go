package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/dataschema/pkg/definition"
	"github.com/dmitrymomot/dataschema/pkg/schema"
)

func (a *app) schemasCmd() *cli.Command {
	return &cli.Command{
		Name:  "schemas",
		Usage: "List the schemas of a definition file or directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "schemas",
				Aliases:  []string{"s"},
				Required: true,
				Usage:    "definition file or directory",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := a.registry(ctx, cmd.String("schemas"), "")
			if err != nil {
				return err
			}
			return listSchemas(a.streams.Out, reg)
		},
	}
}

// listSchemas writes one block per schema with a row per field:
// name, type or nested schema, and flags.
func listSchemas(w io.Writer, reg *definition.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, name := range reg.Names() {
		s := reg.MustGet(name)
		if i > 0 {
			fmt.Fprintln(tw)
		}
		header := name
		if parents := s.Parents(); len(parents) > 0 {
			names := make([]string, len(parents))
			for j, p := range parents {
				names[j] = p.Name()
			}
			header += " (extends " + strings.Join(names, ", ") + ")"
		}
		fmt.Fprintln(tw, header)

		for _, field := range s.Fields() {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", field, describeType(s, field), describeFlags(s, field))
		}
	}
	return tw.Flush()
}

func describeType(s *schema.Schema, name string) string {
	if nested, ok := s.Nested(name); ok {
		return definition.TypeObject + " " + nested.Name()
	}
	f, _ := s.Field(name)
	return string(f.Type())
}

func describeFlags(s *schema.Schema, name string) string {
	f, ok := s.Field(name)
	if !ok {
		return ""
	}
	var flags []string
	if f.IsRequired() {
		flags = append(flags, "required")
	}
	if alias := f.Alias(); alias != "" {
		flags = append(flags, "alias="+alias)
	}
	if def := f.Default(); def != nil {
		flags = append(flags, fmt.Sprintf("default=%v", def))
	}
	return strings.Join(flags, " ")
}
