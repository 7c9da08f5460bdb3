package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/dataschema/pkg/config"
	"github.com/dmitrymomot/dataschema/pkg/logger"
)

const name = "schemacheck"

// overridden during build with ldflags
var version = "dev"

// Streams are the standard streams used by commands.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

type app struct {
	settings config.Settings
	streams  Streams
	log      *slog.Logger
}

// New builds the root command. Flag defaults come from settings.
func New(settings config.Settings, streams Streams) *cli.Command {
	a := &app{settings: settings, streams: streams, log: logger.Discard()}

	return &cli.Command{
		Name:      name,
		Usage:     "Validate documents against declarative schemas",
		Version:   version,
		Writer:    streams.Out,
		ErrWriter: streams.Err,
		Reader:    streams.In,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: settings.LogLevel,
				Usage: "log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: settings.LogFormat,
				Usage: "log format (text, json)",
			},
		},
		Before: a.before,
		Commands: []*cli.Command{
			a.validateCmd(),
			a.schemasCmd(),
		},
	}
}

// before configures logging once flags are parsed so overrides such as
// --log-level apply to every subcommand.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := cmd.String("log-level")
	format := logger.Format(cmd.String("log-format"))
	if format != logger.FormatJSON && format != logger.FormatText {
		return ctx, fmt.Errorf("%w: %q", config.ErrInvalidLogFormat, format)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return ctx, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	a.log = logger.New(
		logger.WithLevel(lvl),
		logger.WithFormat(format),
		logger.WithOutput(a.streams.Err),
		logger.WithAttr(logger.Component(name)),
		logger.WithDocumentFromContext(),
	)
	a.log.DebugContext(ctx, "starting", slog.String("version", version), slog.String("level", lvl.String()))
	return ctx, nil
}

// Execute runs the tool with the process arguments and exits non-zero on
// failure. SIGINT and SIGTERM cancel the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	streams := StdStreams()
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(streams.Err, err)
		os.Exit(1)
	}

	if err := New(settings, streams).Run(ctx, os.Args); err != nil {
		if !errors.Is(err, ErrValidationFailed) {
			fmt.Fprintln(streams.Err, err)
		}
		os.Exit(1)
	}
}
