// Package logger builds *slog.Logger values from functional options and
// provides attribute helpers with consistent keys.
//
//	log := logger.New(
//	    logger.WithLevelName("debug"),
//	    logger.WithFormat(logger.FormatJSON),
//	    logger.WithDocumentFromContext(),
//	)
//	ctx = logger.WithDocument(ctx, "person.json")
//	log.InfoContext(ctx, "record validated", logger.Schema("Person"))
//
// Records go to stderr as text at INFO level unless configured otherwise.
// Context extractors run on every record logged with a context, so values
// such as the current document path are attached without threading them
// through each call.
//
// Error, Errors and Path return an empty Attr for empty input, which slog
// drops, so they can be passed unconditionally:
//
//	log.Info("done", logger.Error(err))
package logger
