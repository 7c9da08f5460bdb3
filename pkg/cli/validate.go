package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/dataschema/pkg/definition"
	"github.com/dmitrymomot/dataschema/pkg/i18n"
	"github.com/dmitrymomot/dataschema/pkg/logger"
	"github.com/dmitrymomot/dataschema/pkg/schema"
)

const stdinName = "-"

type validateOptions struct {
	schemas  string
	typeName string
	input    string
	lang     string
	format   string
	watch    bool
}

func (a *app) validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a document against a schema",
		Description: `Load schema definitions, build a record of the given type from
the input document and print the validated record.

The input may be JSON or YAML. On failure the error and the dotted path
of the offending value are written to stderr and the command exits with
a non-zero status.

Examples:
  schemacheck validate --schemas schemas.yaml --type Person --input ann.json
  cat ann.yaml | schemacheck validate -s schemas/ -t Person --lang zh
  schemacheck validate -s schemas.yaml -t Person -i ann.json --watch`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "schemas",
				Aliases:  []string{"s"},
				Required: true,
				Usage:    "definition file or directory",
			},
			&cli.StringFlag{
				Name:     "type",
				Aliases:  []string{"t"},
				Required: true,
				Usage:    "schema name to validate against",
			},
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Value:   stdinName,
				Usage:   "document to validate, - for stdin",
			},
			&cli.StringFlag{
				Name:    "lang",
				Aliases: []string{"l"},
				Value:   a.settings.Lang,
				Usage:   "message language, e.g. en or zh-CN",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "json",
				Usage:   "output format (json, yaml)",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "re-run when the schemas or the input change",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := validateOptions{
				schemas:  cmd.String("schemas"),
				typeName: cmd.String("type"),
				input:    cmd.String("input"),
				lang:     cmd.String("lang"),
				format:   strings.ToLower(cmd.String("format")),
				watch:    cmd.Bool("watch"),
			}
			if opts.format != "json" && opts.format != "yaml" {
				return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.format)
			}
			if opts.watch {
				if opts.input == stdinName {
					return ErrStdinWithWatch
				}
				return a.watch(ctx, opts)
			}
			return a.check(ctx, opts)
		},
	}
}

// check runs one validation and prints its outcome.
func (a *app) check(ctx context.Context, opts validateOptions) error {
	start := time.Now()
	ctx = logger.WithDocument(ctx, opts.input)

	reg, err := a.registry(ctx, opts.schemas, opts.lang)
	if err != nil {
		return err
	}
	s, ok := reg.Get(opts.typeName)
	if !ok {
		return fmt.Errorf("%w: %q (available: %s)", ErrUnknownSchema, opts.typeName, strings.Join(reg.Names(), ", "))
	}

	data, err := a.readInput(opts.input)
	if err != nil {
		return err
	}

	rec, err := decodeRecord(s, opts.input, data)
	if err != nil {
		verr, ok := schema.AsValidationError(err)
		if !ok {
			return err
		}
		fmt.Fprintln(a.streams.Err, verr.Error())
		if p := verr.PathString(); p != "" {
			fmt.Fprintf(a.streams.Err, "path: %s\n", p)
		}
		a.log.WarnContext(ctx, "document invalid",
			logger.Schema(s.Name()),
			logger.Path(verr.Path),
			slog.String("kind", string(verr.Kind)),
		)
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	if err := writeRecord(a.streams.Out, opts.format, rec); err != nil {
		return err
	}
	a.log.InfoContext(ctx, "document valid", logger.Schema(s.Name()), logger.Duration(time.Since(start)))
	return nil
}

func (a *app) registry(ctx context.Context, path, lang string) (*definition.Registry, error) {
	loc, err := a.settings.Location()
	if err != nil {
		return nil, err
	}

	catalog, err := i18n.NewCatalog(ctx,
		i18n.NewChainAdapter(i18n.BuiltinAdapter(), i18n.NewDirectoryAdapter(a.settings.Messages)),
		i18n.WithLogger(a.log),
	)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	reg := definition.NewRegistry(
		definition.WithCatalog(catalog, lang),
		definition.WithLocation(loc),
		definition.WithLogger(a.log),
	)
	if err := reg.LoadPath(ctx, path); err != nil {
		return nil, fmt.Errorf("load schemas from %q: %w", path, err)
	}
	return reg, nil
}

func (a *app) readInput(name string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if name == stdinName {
		data, err = io.ReadAll(a.streams.In)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, errors.Join(ErrReadingInput, err)
	}
	return data, nil
}

// decodeRecord builds a record from JSON or YAML. JSON is recognized by
// extension or a leading brace.
func decodeRecord(s *schema.Schema, name string, data []byte) (*schema.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if strings.EqualFold(filepath.Ext(name), ".json") || (len(trimmed) > 0 && trimmed[0] == '{') {
		rec, err := s.Decode(trimmed)
		if err != nil && !schema.IsValidationError(err) {
			return nil, errors.Join(ErrInvalidInput, err)
		}
		return rec, err
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}
	if values == nil {
		values = map[string]any{}
	}
	return s.New(values)
}

func writeRecord(w io.Writer, format string, rec *schema.Record) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rec.ToMap()); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
