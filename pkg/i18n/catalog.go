package i18n

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Catalog holds message templates per language. Templates use the
// {placeholder} syntax understood by schema messages. Keys may be nested in
// the source files; they are addressed with dots ("email.regex").
// A Catalog is safe for concurrent use.
type Catalog struct {
	adapter     CatalogAdapter
	defaultLang string
	logger      *slog.Logger

	mu       sync.RWMutex
	messages map[string]map[string]string
	matcher  *matcher
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithDefaultLanguage sets the language used for unmatched requests and
// for keys missing from another language.
func WithDefaultLanguage(lang string) Option {
	return func(c *Catalog) {
		if lang != "" {
			c.defaultLang = lang
		}
	}
}

// WithLogger sets the logger. A discard logger is used by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCatalog loads the adapter content and builds the language matcher.
func NewCatalog(ctx context.Context, adapter CatalogAdapter, opts ...Option) (*Catalog, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}
	c := &Catalog{
		adapter:     adapter,
		defaultLang: DefaultLanguage,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload reads the adapter again and swaps the content atomically. The
// previous content stays in place when loading fails.
func (c *Catalog) Reload(ctx context.Context) error {
	raw, err := c.adapter.Load(ctx)
	if err != nil {
		return err
	}

	messages := make(map[string]map[string]string, len(raw))
	for lang, entries := range raw {
		if lang == "" {
			return ErrEmptyLanguage
		}
		flat := make(map[string]string)
		flatten("", entries, flat)
		messages[lang] = flat
	}

	langs := slices.Sorted(maps.Keys(messages))
	if i := slices.Index(langs, c.defaultLang); i > 0 {
		langs = append([]string{c.defaultLang}, slices.Delete(langs, i, i+1)...)
	} else if i < 0 {
		c.logger.WarnContext(ctx, "default language has no messages", slog.String("lang", c.defaultLang))
	}

	c.mu.Lock()
	c.messages = messages
	c.matcher = newMatcher(langs)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "message catalog loaded", slog.Any("languages", langs))
	return nil
}

// Languages returns the languages with messages, default first.
func (c *Catalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.matcher.langs)
}

// Match resolves a preference (tag, POSIX locale or Accept-Language list)
// to a supported language, falling back to the default.
func (c *Catalog) Match(pref string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if lang, ok := c.matcher.match(pref); ok {
		return lang
	}
	return c.defaultLang
}

// Supports reports whether pref matches a language better than the fallback.
func (c *Catalog) Supports(pref string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.matcher.match(pref)
	return ok
}

// Message returns the template for key in the matched language, falling
// back to the default language.
func (c *Catalog) Message(pref, key string) (string, bool) {
	lang := c.Match(pref)

	c.mu.RLock()
	defer c.mu.RUnlock()
	if tmpl, ok := c.messages[lang][key]; ok {
		return tmpl, true
	}
	tmpl, ok := c.messages[c.defaultLang][key]
	return tmpl, ok
}

// Messages returns every top-level template for the matched language over
// the default language, in the shape accepted by schema.Messages and
// schema.WithMessages. Dotted keys are left out.
func (c *Catalog) Messages(pref string) map[string]string {
	return c.scoped(c.Match(pref), "")
}

// FieldMessages is Messages overlaid by the templates nested under the
// field type ("email.regex" overrides "regex" for email fields).
func (c *Catalog) FieldMessages(pref, fieldType string) map[string]string {
	lang := c.Match(pref)
	out := c.scoped(lang, "")
	maps.Copy(out, c.scoped(lang, fieldType+"."))
	return out
}

// MessagesContext is Messages for the language stored with SetLocale.
func (c *Catalog) MessagesContext(ctx context.Context) map[string]string {
	return c.Messages(GetLocale(ctx))
}

// scoped collects keys directly under prefix, default language first.
func (c *Catalog) scoped(lang, prefix string) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string)
	for _, l := range []string{c.defaultLang, lang} {
		for key, tmpl := range c.messages[l] {
			rest, ok := strings.CutPrefix(key, prefix)
			if !ok || strings.Contains(rest, ".") {
				continue
			}
			out[rest] = tmpl
		}
	}
	return out
}

func flatten(prefix string, entries map[string]any, out map[string]string) {
	for key, val := range entries {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := val.(type) {
		case map[string]any:
			flatten(full, v, out)
		case string:
			out[full] = v
		case nil:
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}
