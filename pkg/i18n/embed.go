package i18n

import (
	"context"
	"embed"
)

//go:embed locales/*.yaml
var locales embed.FS

// BuiltinAdapter serves the catalogs shipped with the package (en, zh).
func BuiltinAdapter() *FSAdapter {
	return NewFSAdapter(locales, "locales")
}

// Builtin loads the shipped catalogs.
func Builtin(ctx context.Context, opts ...Option) (*Catalog, error) {
	return NewCatalog(ctx, BuiltinAdapter(), opts...)
}
