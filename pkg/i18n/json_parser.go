package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// JSONParser implements Parser for JSON catalogs.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse decodes a document whose top-level keys are language codes.
func (p *JSONParser) Parse(ctx context.Context, content []byte) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrJSONParsingCancelled, err)
	}

	var data map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}

	result, ok := languageMaps(data)
	if !ok {
		return nil, fmt.Errorf("%w: json", ErrInvalidStructure)
	}
	return result, nil
}

func (p *JSONParser) SupportsFileExtension(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(ext, "."), "json")
}
