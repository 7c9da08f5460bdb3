package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataschema/pkg/schema"
)

func TestStringField(t *testing.T) {
	t.Parallel()

	t.Run("optional nil resolves to default", func(t *testing.T) {
		t.Parallel()
		v, err := schema.String(schema.Default("guest")).Validate(nil)
		require.NoError(t, err)
		assert.Equal(t, "guest", v)
	})

	t.Run("optional nil without default is nil", func(t *testing.T) {
		t.Parallel()
		v, err := schema.String().Validate(nil)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("required rejects nil and empty string", func(t *testing.T) {
		t.Parallel()
		f := schema.String(schema.Required())
		for _, input := range []any{nil, ""} {
			_, err := f.Validate(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrRequired)
			assert.Equal(t, "This field is required", err.Error())
		}
	})

	t.Run("optional accepts empty string", func(t *testing.T) {
		t.Parallel()
		v, err := schema.String().Validate("")
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("non-string input", func(t *testing.T) {
		t.Parallel()
		_, err := schema.String().Validate(42)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrType)
		assert.Equal(t, "Value must be a string", err.Error())
	})

	t.Run("length bounds are inclusive and counted in runes", func(t *testing.T) {
		t.Parallel()
		f := schema.String(schema.MinLength(2), schema.MaxLength(4))

		for _, ok := range []string{"ab", "abcd", "日本"} {
			_, err := f.Validate(ok)
			assert.NoError(t, err, ok)
		}

		_, err := f.Validate("a")
		require.Error(t, err)
		assert.Equal(t, "Length must be at least 2", err.Error())

		_, err = f.Validate("abcde")
		require.Error(t, err)
		assert.Equal(t, "Length must be at most 4", err.Error())
		assert.ErrorIs(t, err, schema.ErrLength)
	})

	t.Run("regex matches from the start", func(t *testing.T) {
		t.Parallel()
		f := schema.String(schema.Regex(`[a-z]+`))

		_, err := f.Validate("abc123")
		assert.NoError(t, err)

		_, err = f.Validate("1abc")
		require.Error(t, err)
		assert.Equal(t, "Value does not match pattern: [a-z]+", err.Error())
		assert.ErrorIs(t, err, schema.ErrPattern)
	})

	t.Run("invalid regex panics at construction", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { schema.String(schema.Regex(`(`)) })
	})

	t.Run("choices", func(t *testing.T) {
		t.Parallel()
		f := schema.String(schema.Choices("red", "green"))

		_, err := f.Validate("red")
		assert.NoError(t, err)

		_, err = f.Validate("blue")
		require.Error(t, err)
		assert.Equal(t, "Value must be one of: [red, green]", err.Error())
		assert.ErrorIs(t, err, schema.ErrChoice)
	})

	t.Run("validation is idempotent", func(t *testing.T) {
		t.Parallel()
		f := schema.String(schema.MinLength(1))
		first, err := f.Validate("hello")
		require.NoError(t, err)
		second, err := f.Validate(first)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestNumberField(t *testing.T) {
	t.Parallel()

	t.Run("accepts every numeric kind", func(t *testing.T) {
		t.Parallel()
		f := schema.Number()
		for _, v := range []any{1, int8(2), int64(3), uint(4), float32(1.5), 2.5} {
			got, err := f.Validate(v)
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	})

	t.Run("bool is not a number", func(t *testing.T) {
		t.Parallel()
		_, err := schema.Number().Validate(true)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrType)
		assert.Equal(t, "Value must be a number", err.Error())
	})

	t.Run("string is not a number", func(t *testing.T) {
		t.Parallel()
		_, err := schema.Number().Validate("42")
		assert.ErrorIs(t, err, schema.ErrType)
	})

	t.Run("range bounds are inclusive", func(t *testing.T) {
		t.Parallel()
		f := schema.Number(schema.MinValue(0), schema.MaxValue(150))

		for _, v := range []any{0, 150, 75.5} {
			_, err := f.Validate(v)
			assert.NoError(t, err)
		}

		_, err := f.Validate(-1)
		require.Error(t, err)
		assert.Equal(t, "Value must be at least 0", err.Error())
		assert.ErrorIs(t, err, schema.ErrRange)

		_, err = f.Validate(150.5)
		require.Error(t, err)
		assert.Equal(t, "Value must be at most 150", err.Error())
	})

	t.Run("fractional bounds render without trailing zeros", func(t *testing.T) {
		t.Parallel()
		_, err := schema.Number(schema.MinValue(0.5)).Validate(0.1)
		require.Error(t, err)
		assert.Equal(t, "Value must be at least 0.5", err.Error())
	})

	t.Run("choices compare across numeric kinds", func(t *testing.T) {
		t.Parallel()
		f := schema.Number(schema.Choices(1, 2, 3))

		_, err := f.Validate(2.0)
		assert.NoError(t, err)

		_, err = f.Validate(int64(3))
		assert.NoError(t, err)

		_, err = f.Validate(4)
		require.Error(t, err)
		assert.Equal(t, "Value must be one of: [1, 2, 3]", err.Error())
	})

	t.Run("large integers compare without float rounding", func(t *testing.T) {
		t.Parallel()
		const limit = int64(1 << 53)

		f := schema.Number(schema.MaxValue(limit))
		_, err := f.Validate(limit)
		assert.NoError(t, err)
		_, err = f.Validate(limit + 1)
		require.Error(t, err)
		assert.Equal(t, "Value must be at most 9007199254740992", err.Error())

		_, err = schema.Number(schema.MinValue(limit+1)).Validate(limit)
		assert.ErrorIs(t, err, schema.ErrRange)

		c := schema.Number(schema.Choices(limit))
		_, err = c.Validate(limit)
		assert.NoError(t, err)
		_, err = c.Validate(limit + 1)
		assert.Error(t, err)
	})
}

func TestListField(t *testing.T) {
	t.Parallel()

	t.Run("primitive item type", func(t *testing.T) {
		t.Parallel()
		f := schema.List(schema.Items(schema.TypeOf[string]()))

		v, err := f.Validate([]string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, v)
	})

	t.Run("mismatched item reports its index", func(t *testing.T) {
		t.Parallel()
		f := schema.List(schema.Items(schema.TypeOf[string]()))

		_, err := f.Validate([]any{"a", 1})
		require.Error(t, err)
		assert.Equal(t, "Item at index 1 has invalid type, expected string", err.Error())
		assert.ErrorIs(t, err, schema.ErrType)

		verr, ok := schema.AsValidationError(err)
		require.True(t, ok)
		assert.Empty(t, verr.Path)
	})

	t.Run("non-list input", func(t *testing.T) {
		t.Parallel()
		_, err := schema.List(schema.Items(schema.TypeOf[int]())).Validate("abc")
		require.Error(t, err)
		assert.Equal(t, "Value must be a list", err.Error())
	})

	t.Run("list without item type is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := schema.List().Validate([]any{1})
		assert.ErrorIs(t, err, schema.ErrType)
	})

	t.Run("length bounds", func(t *testing.T) {
		t.Parallel()
		f := schema.List(schema.Items(schema.TypeOf[int]()), schema.MinLength(1), schema.MaxLength(2))

		_, err := f.Validate([]int{})
		assert.ErrorIs(t, err, schema.ErrLength)

		_, err = f.Validate([]int{1, 2, 3})
		require.Error(t, err)
		assert.Equal(t, "Length must be at most 2", err.Error())
	})

	t.Run("field item type validates each element", func(t *testing.T) {
		t.Parallel()
		f := schema.List(schema.Items(schema.Email()))

		v, err := f.Validate([]any{"a@example.com", "b@example.org"})
		require.NoError(t, err)
		assert.Len(t, v, 2)

		_, err = f.Validate([]any{"a@example.com", "bogus"})
		require.Error(t, err)
		verr, ok := schema.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"1"}, verr.Path)
		assert.Equal(t, "Invalid email address", verr.Message)
	})

	t.Run("self-referencing list terminates", func(t *testing.T) {
		t.Parallel()
		inner := schema.List(schema.Items(schema.TypeOf[int]()))
		f := schema.List(schema.Items(inner))

		cyclic := make([]any, 1)
		cyclic[0] = cyclic

		assert.NotPanics(t, func() {
			_, err := f.Validate(cyclic)
			assert.NoError(t, err)
		})
	})
}

func TestEmailField(t *testing.T) {
	t.Parallel()

	t.Run("valid address", func(t *testing.T) {
		t.Parallel()
		v, err := schema.Email().Validate("user.name+tag@example.co.uk")
		require.NoError(t, err)
		assert.Equal(t, "user.name+tag@example.co.uk", v)
	})

	t.Run("invalid address", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{"bogus", "a@b", "@example.com"} {
			_, err := schema.Email().Validate(input)
			require.Error(t, err, input)
			assert.Equal(t, "Invalid email address", err.Error())
		}
	})

	t.Run("non-string input", func(t *testing.T) {
		t.Parallel()
		_, err := schema.Email().Validate(42)
		require.Error(t, err)
		assert.Equal(t, "Email must be a string", err.Error())
	})

	t.Run("caller messages override presets", func(t *testing.T) {
		t.Parallel()
		f := schema.Email(schema.Messages(map[string]string{"regex": "Bad email"}))
		_, err := f.Validate("bogus")
		require.Error(t, err)
		assert.Equal(t, "Bad email", err.Error())
	})
}

func TestUUIDField(t *testing.T) {
	t.Parallel()

	t.Run("canonicalizes accepted forms", func(t *testing.T) {
		t.Parallel()
		want := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
		for _, input := range []string{
			"6BA7B810-9DAD-11D1-80B4-00C04FD430C8",
			"urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8",
			"{6ba7b810-9dad-11d1-80b4-00c04fd430c8}",
		} {
			v, err := schema.UUID().Validate(input)
			require.NoError(t, err, input)
			assert.Equal(t, want, v)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		t.Parallel()
		_, err := schema.UUID().Validate("not-a-uuid")
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrFormat)
		assert.Equal(t, "Value must be a valid UUID", err.Error())
	})
}

func TestFieldMessages(t *testing.T) {
	t.Parallel()

	t.Run("custom template with placeholder", func(t *testing.T) {
		t.Parallel()
		f := schema.String(
			schema.MinLength(3),
			schema.Messages(map[string]string{"min_length": "Need {min_length} characters"}),
		)
		_, err := f.Validate("ab")
		require.Error(t, err)
		assert.Equal(t, "Need 3 characters", err.Error())
	})

	t.Run("template with unknown placeholder is returned raw", func(t *testing.T) {
		t.Parallel()
		f := schema.String(
			schema.Required(),
			schema.Messages(map[string]string{"required": "Missing {label}"}),
		)
		_, err := f.Validate(nil)
		require.Error(t, err)
		assert.Equal(t, "Missing {label}", err.Error())
	})

	t.Run("unknown key falls back to generic message", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Validation error", schema.String().ErrorMessage("no_such_key", nil))
	})

	t.Run("nil parameter renders as None", func(t *testing.T) {
		t.Parallel()
		f := schema.String(schema.Messages(map[string]string{"x": "got {value}"}))
		assert.Equal(t, "got None", f.ErrorMessage("x", schema.Params{"value": nil}))
	})
}

func TestFieldDefaults(t *testing.T) {
	t.Parallel()

	t.Run("producer is invoked on every use", func(t *testing.T) {
		t.Parallel()
		calls := 0
		f := schema.List(
			schema.Items(schema.TypeOf[string]()),
			schema.DefaultFunc(func() any {
				calls++
				return []string{}
			}),
		)

		_, err := f.Validate(nil)
		require.NoError(t, err)
		_, err = f.Validate(nil)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("func value passed to Default is a producer", func(t *testing.T) {
		t.Parallel()
		f := schema.Number(schema.Default(func() any { return 7 }))
		assert.Equal(t, 7, f.Default())
	})
}

func TestCustomStrategies(t *testing.T) {
	t.Parallel()

	t.Run("pipeline can be replaced", func(t *testing.T) {
		t.Parallel()
		upper := schema.StrategyFunc(func(v any, _ *schema.Field) (any, error) {
			return v.(string) + "!", nil
		})
		v, err := schema.String(schema.Strategies(upper)).Validate("hi")
		require.NoError(t, err)
		assert.Equal(t, "hi!", v)
	})

	t.Run("skip remaining ends the pipeline", func(t *testing.T) {
		t.Parallel()
		stop := schema.StrategyFunc(func(v any, _ *schema.Field) (any, error) {
			return "stopped", schema.SkipRemaining
		})
		never := schema.StrategyFunc(func(v any, _ *schema.Field) (any, error) {
			t.Fatal("strategy after SkipRemaining must not run")
			return nil, nil
		})
		v, err := schema.String(schema.Strategies(stop, never)).Validate("x")
		require.NoError(t, err)
		assert.Equal(t, "stopped", v)
	})

	t.Run("plain errors become type errors keeping the cause", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		failing := schema.StrategyFunc(func(any, *schema.Field) (any, error) { return nil, boom })

		_, err := schema.String(schema.Strategies(failing)).Validate("x")
		require.Error(t, err)
		assert.Equal(t, "Value must be a string: boom", err.Error())
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, err, schema.ErrType)
	})
}

func TestFieldConstraints(t *testing.T) {
	t.Parallel()

	f := schema.String(schema.Required(), schema.MinLength(2), schema.Alias("nick"))
	c := f.Constraints()
	assert.Equal(t, schema.TypeString, c.Type)
	assert.True(t, c.Required)
	assert.Equal(t, "nick", c.Alias)
	require.NotNil(t, c.MinLength)
	assert.Equal(t, 2, *c.MinLength)
	assert.Nil(t, c.MaxLength)

	*c.MinLength = 10
	_, err := f.Validate("abc")
	assert.NoError(t, err, "snapshot must not alias field state")
}
