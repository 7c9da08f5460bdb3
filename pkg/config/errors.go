package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrNilPointer is returned when a nil pointer is provided to Load.
	ErrNilPointer = errors.New("nil pointer provided to config loader")

	// ErrLoadingEnvFile is returned when an explicitly requested .env file cannot be read.
	ErrLoadingEnvFile = errors.New("failed to load env file")

	// ErrInvalidTimezone is returned when SCHEMA_TIMEZONE names no known location.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidLogFormat is returned when SCHEMA_LOG_FORMAT is neither json nor text.
	ErrInvalidLogFormat = errors.New("invalid log format")
)
