package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Params holds the values substituted into a message template.
type Params map[string]any

// DefaultMessages is the fallback template table shared by all fields.
// Per-field templates passed with Messages take precedence.
var DefaultMessages = map[string]string{
	string(KindRequired):        "This field is required",
	string(KindMinLength):       "Length must be at least {min_length}",
	string(KindMaxLength):       "Length must be at most {max_length}",
	string(KindMinValue):        "Value must be at least {minvalue}",
	string(KindMaxValue):        "Value must be at most {maxvalue}",
	string(KindChoices):         "Value must be one of: {choices}",
	string(KindRegex):           "Value does not match pattern: {regex}",
	string(KindInvalidType):     "Value must be a {expected_type}",
	string(KindInvalidListItem): "Item at index {index} has invalid type, expected {expected_type}",
	string(KindInvalidDate):     "Invalid date format: {value}",
	string(KindMinDate):         "Date must be on or after {min_date}",
	string(KindMaxDate):         "Date must be on or before {max_date}",
	string(KindInvalidDateTime): "Invalid datetime format: {value}",
	string(KindMinDateTime):     "Datetime must be on or after {min_datetime}",
	string(KindMaxDateTime):     "Datetime must be on or before {max_datetime}",
	string(KindInvalidUUID):     "Value must be a valid UUID",
	string(KindMissingField):    "Missing required field: '{field}'",
	string(KindInvalidNested):   "Expected mapping or {schema} record for field '{field}'",
}

const fallbackMessage = "Validation error"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var placeholderRegex = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// formatMessage substitutes {name} placeholders. When any placeholder has
// no matching parameter the template is returned unformatted, so a broken
// custom template never hides the failure it describes.
func formatMessage(tmpl string, params Params) string {
	missing := false
	out := placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]
		val, ok := params[name]
		if !ok {
			missing = true
			return match
		}
		return formatParam(val)
	})
	if missing {
		return tmpl
	}
	return out
}

func formatParam(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case string:
		return val
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(dateTimeLayout)
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := range rv.Len() {
			parts[i] = formatParam(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v)
}

// lookupMessage resolves a template from the override table, then the
// defaults, then the generic fallback.
func lookupMessage(overrides map[string]string, key string) string {
	if tmpl, ok := overrides[key]; ok {
		return tmpl
	}
	if tmpl, ok := DefaultMessages[key]; ok {
		return tmpl
	}
	return fallbackMessage
}
