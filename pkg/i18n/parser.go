package i18n

import (
	"context"
	"path/filepath"
	"strings"
)

// Parser decodes catalog content into messages keyed by language.
type Parser interface {
	// Parse returns language -> (possibly nested) message map.
	Parse(ctx context.Context, content []byte) (map[string]map[string]any, error)

	// SupportsFileExtension reports whether the parser handles ext; the
	// leading dot is optional.
	SupportsFileExtension(ext string) bool
}

// NewParserForFile returns the parser matching the file extension, or nil.
func NewParserForFile(filename string) Parser {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "json":
		return NewJSONParser()
	case "yaml", "yml":
		return NewYAMLParser()
	}
	return nil
}

// languageMaps keeps the entries of data whose value is a mapping.
func languageMaps(data map[string]any) (map[string]map[string]any, bool) {
	result := make(map[string]map[string]any, len(data))
	for lang, val := range data {
		m, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		result[lang] = m
	}
	return result, true
}
