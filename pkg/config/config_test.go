package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataschema/pkg/config"
)

type sample struct {
	Name string `env:"SCHEMA_TEST_NAME"`
	Port int    `env:"SCHEMA_TEST_PORT" envDefault:"80"`
}

// unset removes variables for the duration of the test.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad(t *testing.T) {
	t.Run("parses tagged fields", func(t *testing.T) {
		t.Setenv("SCHEMA_TEST_NAME", "svc")
		t.Setenv("SCHEMA_TEST_PORT", "9000")

		var s sample
		require.NoError(t, config.Load(&s))
		assert.Equal(t, sample{Name: "svc", Port: 9000}, s)
	})

	t.Run("applies defaults", func(t *testing.T) {
		var s struct {
			Port int `env:"SCHEMA_TEST_UNSET_PORT" envDefault:"80"`
		}
		require.NoError(t, config.Load(&s))
		assert.Equal(t, 80, s.Port)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("SCHEMA_TEST_PORT", "not-a-number")
		var s sample
		err := config.Load(&s)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[sample](nil), config.ErrNilPointer)
	})

	t.Run("must load panics on failure", func(t *testing.T) {
		t.Setenv("SCHEMA_TEST_PORT", "x")
		assert.Panics(t, func() { config.MustLoad(&sample{}) })
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("reads env files without overriding", func(t *testing.T) {
		t.Setenv("SCHEMA_TEST_NAME", "from-env")
		unset(t, "SCHEMA_TEST_PORT")
		require.NoError(t, config.LoadEnv("testdata/test.env"))

		var s sample
		require.NoError(t, config.Load(&s))
		assert.Equal(t, "from-env", s.Name)
		assert.Equal(t, 8080, s.Port)
	})

	t.Run("earlier files take precedence", func(t *testing.T) {
		unset(t, "SCHEMA_TEST_NAME", "SCHEMA_TEST_PORT")
		require.NoError(t, config.LoadEnv("testdata/test.env", "testdata/second.env"))

		var s sample
		require.NoError(t, config.Load(&s))
		assert.Equal(t, "from-file", s.Name)
		assert.Equal(t, 8080, s.Port)
	})

	t.Run("missing file", func(t *testing.T) {
		assert.ErrorIs(t, config.LoadEnv("testdata/missing.env"), config.ErrLoadingEnvFile)
	})

	t.Run("no paths is a no-op", func(t *testing.T) {
		assert.NoError(t, config.LoadEnv())
	})
}

func TestLoadSettings(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		unset(t, "SCHEMA_LOG_LEVEL", "SCHEMA_LOG_FORMAT", "SCHEMA_TIMEZONE")

		s, err := config.LoadSettings()
		require.NoError(t, err)
		assert.Equal(t, "info", s.LogLevel)
		assert.Equal(t, "text", s.LogFormat)
		loc, err := s.Location()
		require.NoError(t, err)
		assert.Equal(t, time.Local, loc)
	})

	t.Run("explicit values", func(t *testing.T) {
		t.Setenv("SCHEMA_LOG_FORMAT", "JSON")
		t.Setenv("SCHEMA_LANG", "zh")
		t.Setenv("SCHEMA_TIMEZONE", "UTC")

		s, err := config.LoadSettings()
		require.NoError(t, err)
		assert.Equal(t, "json", s.LogFormat)
		assert.Equal(t, "zh", s.Lang)
		loc, err := s.Location()
		require.NoError(t, err)
		assert.Equal(t, "UTC", loc.String())
	})

	t.Run("invalid log format", func(t *testing.T) {
		t.Setenv("SCHEMA_LOG_FORMAT", "xml")
		_, err := config.LoadSettings()
		assert.ErrorIs(t, err, config.ErrInvalidLogFormat)
	})

	t.Run("invalid timezone", func(t *testing.T) {
		t.Setenv("SCHEMA_LOG_FORMAT", "text")
		t.Setenv("SCHEMA_TIMEZONE", "Mars/Olympus")
		_, err := config.LoadSettings()
		assert.ErrorIs(t, err, config.ErrInvalidTimezone)
	})
}
