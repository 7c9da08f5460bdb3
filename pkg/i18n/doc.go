// Package i18n provides language-aware message catalogs for schema
// validation errors.
//
// A Catalog maps languages to message templates keyed the same way as
// schema messages ("required", "min_length", ...). Content comes from a
// CatalogAdapter: MapAdapter for in-memory data, FileAdapter for a single
// file, FSAdapter for a directory in any fs.FS (embed.FS included). YAML and
// JSON are parsed by YAMLParser and JSONParser; files keep one top-level
// key per language:
//
//	en:
//	  required: "This field is required"
//	  email:
//	    regex: "Invalid email address"
//
// Nested keys are flattened with dots. FieldMessages overlays the entries
// nested under a field type on top of the generic ones.
//
// # Usage
//
//	catalog, err := i18n.Builtin(ctx)
//	if err != nil {
//	    return err
//	}
//	name := schema.String(schema.Required(), schema.Messages(catalog.Messages("zh-CN")))
//
// Language preferences are matched with golang.org/x/text/language, so
// "zh-CN", "zh_CN.UTF-8" and "fr;q=0.9, zh" all resolve to "zh" when it is
// available. Anything unmatched resolves to the default language, "en"
// unless WithDefaultLanguage says otherwise. Keys missing from a language
// fall back to the default language.
//
// # Error Handling
//
// Loading errors wrap package sentinels such as ErrFailedToParseFile and
// ErrNoCatalogFiles, joined with the underlying cause:
//
//	if errors.Is(err, i18n.ErrFailedToParseFile) {
//	    // report the broken catalog file
//	}
package i18n
