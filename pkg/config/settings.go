package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Settings holds the process-wide options of the schemacheck tooling.
type Settings struct {
	LogLevel  string `env:"SCHEMA_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"SCHEMA_LOG_FORMAT" envDefault:"text"`
	// Lang is the preferred message language; empty means the catalog default.
	Lang string `env:"SCHEMA_LANG"`
	// Timezone names the location used for timestamps without an offset.
	Timezone string `env:"SCHEMA_TIMEZONE" envDefault:"Local"`
	// Messages points to a directory of YAML/JSON message catalogs
	// merged over the built-in ones.
	Messages string `env:"SCHEMA_MESSAGES"`
}

// LoadSettings reads Settings from the environment and validates them.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := Load(&s); err != nil {
		return Settings{}, err
	}
	s.LogFormat = strings.ToLower(strings.TrimSpace(s.LogFormat))
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return Settings{}, fmt.Errorf("%w: %q", ErrInvalidLogFormat, s.LogFormat)
	}
	if _, err := s.Location(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Location resolves Timezone. "Local" and empty map to time.Local.
func (s Settings) Location() (*time.Location, error) {
	switch s.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, errors.Join(ErrInvalidTimezone, err)
	}
	return loc, nil
}
