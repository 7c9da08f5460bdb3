package logger

import (
	"context"
	"log/slog"
)

type documentKey struct{}

// WithDocument stores the document path in ctx. Loggers built with
// WithDocumentFromContext attach it to every record logged with ctx.
func WithDocument(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, documentKey{}, path)
}

// DocumentFromContext returns the document path stored by WithDocument.
func DocumentFromContext(ctx context.Context) (string, bool) {
	path, ok := ctx.Value(documentKey{}).(string)
	return path, ok && path != ""
}

func documentExtractor(ctx context.Context) (slog.Attr, bool) {
	path, ok := DocumentFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return Document(path), true
}
