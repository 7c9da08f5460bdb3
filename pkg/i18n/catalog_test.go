package i18n_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataschema/pkg/i18n"
	"github.com/dmitrymomot/dataschema/pkg/schema"
)

func testCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()
	c, err := i18n.NewCatalog(context.Background(), &i18n.MapAdapter{Data: map[string]map[string]any{
		"en": {
			"required":   "This field is required",
			"min_length": "At least {min_length}",
			"email":      map[string]any{"regex": "Bad email"},
		},
		"de": {
			"required": "Pflichtfeld",
		},
	}})
	require.NoError(t, err)
	return c
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	t.Run("default language is listed first", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"en", "de"}, testCatalog(t).Languages())
	})

	t.Run("language matching", func(t *testing.T) {
		t.Parallel()
		c := testCatalog(t)
		cases := map[string]string{
			"de":                "de",
			"de-AT":             "de",
			"de_DE.UTF-8":       "de",
			"fr;q=0.9, de;q=0.8": "de",
			"fr":                "en",
			"":                  "en",
			"C":                 "en",
		}
		for pref, want := range cases {
			assert.Equal(t, want, c.Match(pref), pref)
		}
		assert.True(t, c.Supports("de-CH"))
		assert.False(t, c.Supports("ja"))
	})

	t.Run("missing keys fall back to the default language", func(t *testing.T) {
		t.Parallel()
		c := testCatalog(t)

		msg, ok := c.Message("de", "required")
		require.True(t, ok)
		assert.Equal(t, "Pflichtfeld", msg)

		msg, ok = c.Message("de", "min_length")
		require.True(t, ok)
		assert.Equal(t, "At least {min_length}", msg)

		_, ok = c.Message("de", "nope")
		assert.False(t, ok)
	})

	t.Run("messages exclude nested keys", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, map[string]string{
			"required":   "Pflichtfeld",
			"min_length": "At least {min_length}",
		}, testCatalog(t).Messages("de"))
	})

	t.Run("field messages overlay the type scope", func(t *testing.T) {
		t.Parallel()
		m := testCatalog(t).FieldMessages("en", "email")
		assert.Equal(t, "Bad email", m["regex"])
		assert.Equal(t, "This field is required", m["required"])
	})

	t.Run("messages from context locale", func(t *testing.T) {
		t.Parallel()
		ctx := i18n.SetLocale(context.Background(), "de")
		assert.Equal(t, "Pflichtfeld", testCatalog(t).MessagesContext(ctx)["required"])
		assert.Equal(t, i18n.DefaultLanguage, i18n.GetLocale(context.Background()))
	})

	t.Run("custom default language", func(t *testing.T) {
		t.Parallel()
		c, err := i18n.NewCatalog(context.Background(), &i18n.MapAdapter{Data: map[string]map[string]any{
			"en": {"required": "Required"},
			"de": {"required": "Pflichtfeld"},
		}}, i18n.WithDefaultLanguage("de"))
		require.NoError(t, err)
		assert.Equal(t, "de", c.Match("ja"))
		assert.Equal(t, []string{"de", "en"}, c.Languages())
	})

	t.Run("nil adapter", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.NewCatalog(context.Background(), nil)
		assert.ErrorIs(t, err, i18n.ErrNilAdapter)
	})

	t.Run("empty language code", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.NewCatalog(context.Background(), &i18n.MapAdapter{Data: map[string]map[string]any{"": {}}})
		assert.ErrorIs(t, err, i18n.ErrEmptyLanguage)
	})

	t.Run("empty catalog is usable", func(t *testing.T) {
		t.Parallel()
		c, err := i18n.NewCatalog(context.Background(), &i18n.MapAdapter{})
		require.NoError(t, err)
		assert.Empty(t, c.Languages())
		assert.Equal(t, "en", c.Match("zh"))
		assert.Empty(t, c.Messages("en"))
	})
}

func TestBuiltinCatalog(t *testing.T) {
	t.Parallel()

	c, err := i18n.Builtin(context.Background())
	require.NoError(t, err)

	t.Run("ships english and chinese", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"en", "zh"}, c.Languages())
		assert.Equal(t, "zh", c.Match("zh-CN"))
	})

	t.Run("english matches the schema defaults", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, schema.DefaultMessages, c.Messages("en"))
	})

	t.Run("chinese covers every key", func(t *testing.T) {
		t.Parallel()
		zh := c.Messages("zh")
		for key := range schema.DefaultMessages {
			assert.NotEqual(t, schema.DefaultMessages[key], zh[key], key)
		}
	})

	t.Run("applied to a field", func(t *testing.T) {
		t.Parallel()
		f := schema.String(schema.Required(), schema.MinLength(3), schema.Messages(c.Messages("zh")))

		_, err := f.Validate(nil)
		require.Error(t, err)
		assert.Equal(t, "该字段为必填项", err.Error())

		_, err = f.Validate("ab")
		require.Error(t, err)
		assert.Equal(t, "长度不能少于 3", err.Error())
	})

	t.Run("email scope", func(t *testing.T) {
		t.Parallel()
		f := schema.Email(schema.Messages(c.FieldMessages("zh", "email")))
		_, err := f.Validate("bogus")
		require.Error(t, err)
		assert.Equal(t, "无效的邮箱地址", err.Error())
	})
}
