package schema_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataschema/pkg/schema"
)

func TestDateField(t *testing.T) {
	t.Parallel()

	utc := schema.Location(time.UTC)
	march5 := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	t.Run("parses the supported layouts", func(t *testing.T) {
		t.Parallel()
		f := schema.Date(utc)
		for _, input := range []string{"2024-03-05", "2024/03/05", "03/05/2024", "20240305", "Mar 5, 2024", "March 5, 2024", "5 Mar 2024"} {
			v, err := f.Validate(input)
			require.NoError(t, err, input)
			assert.True(t, march5.Equal(v.(time.Time)), input)
		}
	})

	t.Run("iso datetime strings are truncated to midnight", func(t *testing.T) {
		t.Parallel()
		f := schema.Date(utc)
		for _, input := range []string{"2024-03-05T00:00:00Z", "2024-03-05T10:20:30.5Z", "2024-03-05T10:20:30"} {
			v, err := f.Validate(input)
			require.NoError(t, err, input)
			assert.True(t, march5.Equal(v.(time.Time)), input)
		}
	})

	t.Run("surrounding whitespace is ignored", func(t *testing.T) {
		t.Parallel()
		v, err := schema.Date(utc).Validate("  2024-03-05 ")
		require.NoError(t, err)
		assert.True(t, march5.Equal(v.(time.Time)))
	})

	t.Run("time values are truncated to midnight", func(t *testing.T) {
		t.Parallel()
		in := time.Date(2024, time.March, 5, 15, 4, 5, 0, time.UTC)
		v, err := schema.Date(utc).Validate(in)
		require.NoError(t, err)
		assert.True(t, march5.Equal(v.(time.Time)))
	})

	t.Run("unix timestamps", func(t *testing.T) {
		t.Parallel()
		v, err := schema.Date(utc).Validate(march5.Unix() + 3600)
		require.NoError(t, err)
		assert.True(t, march5.Equal(v.(time.Time)))
	})

	t.Run("unparseable string", func(t *testing.T) {
		t.Parallel()
		_, err := schema.Date().Validate("yesterday")
		require.Error(t, err)
		assert.Equal(t, "Invalid date format: yesterday", err.Error())
		assert.ErrorIs(t, err, schema.ErrFormat)
	})

	t.Run("unsupported type", func(t *testing.T) {
		t.Parallel()
		_, err := schema.Date().Validate(true)
		require.Error(t, err)
		assert.Equal(t, "Value must be a date", err.Error())
	})

	t.Run("custom formats replace the defaults", func(t *testing.T) {
		t.Parallel()
		f := schema.Date(utc, schema.Formats("02.01.2006"))

		v, err := f.Validate("05.03.2024")
		require.NoError(t, err)
		assert.True(t, march5.Equal(v.(time.Time)))

		_, err = f.Validate("2024-03-05")
		assert.ErrorIs(t, err, schema.ErrFormat)
	})

	t.Run("inclusive range", func(t *testing.T) {
		t.Parallel()
		f := schema.Date(utc,
			schema.MinDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			schema.MaxDate(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)),
		)

		for _, ok := range []string{"2024-01-01", "2024-12-31"} {
			_, err := f.Validate(ok)
			assert.NoError(t, err, ok)
		}

		_, err := f.Validate("2023-12-31")
		require.Error(t, err)
		assert.Equal(t, "Date must be on or after 2024-01-01", err.Error())
		assert.ErrorIs(t, err, schema.ErrRange)

		_, err = f.Validate("2025-01-01")
		require.Error(t, err)
		assert.Equal(t, "Date must be on or before 2024-12-31", err.Error())
	})

	t.Run("output format", func(t *testing.T) {
		t.Parallel()
		f := schema.Date(utc, schema.OutputFormat("02 Jan 2006"))

		v, err := f.Validate("2024-03-05")
		require.NoError(t, err)
		assert.Equal(t, "05 Mar 2024", v)

		again, err := f.Validate(v)
		require.NoError(t, err)
		assert.Equal(t, v, again)
	})

	t.Run("timestamp output", func(t *testing.T) {
		t.Parallel()
		v, err := schema.Date(utc, schema.ReturnTimestamp()).Validate("1970-01-02")
		require.NoError(t, err)
		assert.Equal(t, int64(86400), v)
	})

	t.Run("choices compare instants", func(t *testing.T) {
		t.Parallel()
		f := schema.Date(utc, schema.Choices(march5))

		_, err := f.Validate("2024-03-05")
		assert.NoError(t, err)

		_, err = f.Validate("2024-03-06")
		assert.ErrorIs(t, err, schema.ErrChoice)
	})

	t.Run("optional nil skips parsing", func(t *testing.T) {
		t.Parallel()
		v, err := schema.Date().Validate(nil)
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestDateTimeField(t *testing.T) {
	t.Parallel()

	utc := schema.Location(time.UTC)
	want := time.Date(2024, time.March, 5, 10, 20, 30, 0, time.UTC)

	t.Run("parses iso and common layouts", func(t *testing.T) {
		t.Parallel()
		f := schema.DateTime(utc)
		for _, input := range []string{
			"2024-03-05T10:20:30",
			"2024-03-05T10:20:30Z",
			"2024-03-05 10:20:30",
			"2024/03/05 10:20:30",
			"03/05/2024 10:20:30",
		} {
			v, err := f.Validate(input)
			require.NoError(t, err, input)
			assert.True(t, want.Equal(v.(time.Time)), input)
		}
	})

	t.Run("zone offsets are honored", func(t *testing.T) {
		t.Parallel()
		v, err := schema.DateTime(utc).Validate("2024-03-05T12:20:30+02:00")
		require.NoError(t, err)
		assert.True(t, want.Equal(v.(time.Time)))
	})

	t.Run("date-only string is midnight", func(t *testing.T) {
		t.Parallel()
		v, err := schema.DateTime(utc).Validate("2024-03-05")
		require.NoError(t, err)
		assert.True(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC).Equal(v.(time.Time)))
	})

	t.Run("fractional timestamps keep sub-second precision", func(t *testing.T) {
		t.Parallel()
		v, err := schema.DateTime(utc).Validate(1.5)
		require.NoError(t, err)
		assert.True(t, time.Unix(1, 500_000_000).Equal(v.(time.Time)))
	})

	t.Run("unparseable string", func(t *testing.T) {
		t.Parallel()
		_, err := schema.DateTime().Validate("nope")
		require.Error(t, err)
		assert.Equal(t, "Invalid datetime format: nope", err.Error())
	})

	t.Run("unsupported type", func(t *testing.T) {
		t.Parallel()
		_, err := schema.DateTime().Validate([]int{1})
		require.Error(t, err)
		assert.Equal(t, "Value must be a datetime", err.Error())
	})

	t.Run("inclusive range", func(t *testing.T) {
		t.Parallel()
		bound := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		f := schema.DateTime(utc, schema.MaxDateTime(bound))

		_, err := f.Validate(bound)
		assert.NoError(t, err)

		_, err = f.Validate(bound.Add(time.Second))
		require.Error(t, err)
		assert.Equal(t, "Datetime must be on or before 2024-01-01 00:00:00", err.Error())

		_, err = schema.DateTime(utc, schema.MinDateTime(bound)).Validate(bound.Add(-time.Second))
		require.Error(t, err)
		assert.Equal(t, "Datetime must be on or after 2024-01-01 00:00:00", err.Error())
	})

	t.Run("output format is tried first when parsing", func(t *testing.T) {
		t.Parallel()
		f := schema.DateTime(utc, schema.OutputFormat("02.01.2006 15:04"))

		v, err := f.Validate("05.03.2024 10:20")
		require.NoError(t, err)
		assert.Equal(t, "05.03.2024 10:20", v)
	})

	t.Run("location applies to zone-less input", func(t *testing.T) {
		t.Parallel()
		tokyo := time.FixedZone("JST", 9*3600)
		v, err := schema.DateTime(schema.Location(tokyo)).Validate("2024-03-05T19:20:30")
		require.NoError(t, err)
		assert.True(t, want.Equal(v.(time.Time)))
	})
}
