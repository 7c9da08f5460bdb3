package definition

import "errors"

var (
	ErrInvalidDocument  = errors.New("invalid definition document")
	ErrEmptyName        = errors.New("empty name")
	ErrDuplicateSchema  = errors.New("duplicate schema")
	ErrUnknownSchema    = errors.New("unknown schema")
	ErrUnknownType      = errors.New("unknown field type")
	ErrInheritanceCycle = errors.New("inheritance cycle")
	ErrInvalidPattern   = errors.New("invalid regex pattern")
	ErrInvalidBound     = errors.New("invalid date bound")
	ErrMissingItems     = errors.New("list field without items")

	ErrLoadingCancelled = errors.New("loading definitions cancelled")
	ErrFailedToReadFile = errors.New("failed to read definition file")
	ErrFailedToReadDir  = errors.New("failed to read definition directory")
	ErrNoDefinitions    = errors.New("no definition files found")
)
