package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when a requested language cannot be matched.
const DefaultLanguage = "en"

// matcher picks the best supported language for a preference string.
type matcher struct {
	langs []string
	m     language.Matcher
}

// newMatcher builds a matcher over langs; the default language must come
// first, x/text treats the first tag as the fallback.
func newMatcher(langs []string) *matcher {
	if len(langs) == 0 {
		return &matcher{}
	}
	tags := make([]language.Tag, len(langs))
	for i, l := range langs {
		tags[i] = language.Make(l)
	}
	return &matcher{langs: langs, m: language.NewMatcher(tags)}
}

// match accepts a single tag ("zh-CN"), a POSIX locale ("zh_CN.UTF-8") or
// an Accept-Language list ("fr;q=0.9, zh"). It returns the matched
// supported language and whether the match was better than the fallback.
func (m *matcher) match(pref string) (string, bool) {
	if len(m.langs) == 0 {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(normalizeLocale(pref))
	if err != nil || len(tags) == 0 {
		return m.langs[0], false
	}
	_, idx, conf := m.m.Match(tags...)
	if conf == language.No {
		return m.langs[0], false
	}
	return m.langs[idx], true
}

// normalizeLocale turns POSIX locale names into BCP 47 tags.
func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 && !strings.Contains(s, ",") {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}
