// Package config loads configuration from environment variables into
// tagged structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - Load reads the default .env file once per process, then parses the
//     environment into any struct using env tags.
//   - LoadEnv reads explicit .env files; values already present in the
//     environment win.
//   - MustLoad panics on failure, for configuration that must be present.
//
// Settings describes the options shared by the command-line tooling
// (log level and format, message language, timezone, message directory):
//
//	s, err := config.LoadSettings()
//	if err != nil {
//	    return err
//	}
//	loc, _ := s.Location()
//
// Configuration is parsed on every call; nothing is cached, so tests can
// change variables with t.Setenv between loads.
//
// All errors wrap one of the exported sentinels (ErrParsingConfig,
// ErrNilPointer, ErrLoadingEnvFile, ErrInvalidTimezone,
// ErrInvalidLogFormat) and can be checked with errors.Is.
package config
