package i18n

import "errors"

var (
	// Parsing
	ErrJSONParsingCancelled = errors.New("json parsing cancelled")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON content")
	ErrYAMLParsingCancelled = errors.New("yaml parsing cancelled")
	ErrFailedToParseYAML    = errors.New("failed to parse YAML content")
	ErrInvalidStructure     = errors.New("catalog content must map languages to messages")

	// Sources
	ErrNilAdapter           = errors.New("catalog adapter is nil")
	ErrLoadingFileCancelled = errors.New("loading catalog file cancelled")
	ErrFailedToReadFile     = errors.New("failed to read catalog file")
	ErrFailedToParseFile    = errors.New("failed to parse catalog file")
	ErrFailedToReadDir      = errors.New("failed to read catalog directory")
	ErrNoCatalogFiles       = errors.New("no catalog files found")

	// Content
	ErrEmptyLanguage = errors.New("empty language code")
)
