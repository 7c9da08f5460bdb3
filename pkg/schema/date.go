package schema

import (
	"math"
	"strings"
	"time"
)

// DateLayouts are the candidate layouts for Date strings, tried in order.
// The ISO datetime forms accept the RFC 3339 text a Date marshals to.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"02-01-2006",
	"20060102",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// DateTimeLayouts are the candidate layouts for DateTime strings. The ISO
// form with a "T" separator comes first.
var DateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006/01/02 15:04:05",
	"01/02/2006 15:04:05",
	"02/01/2006 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

func (f *Field) isDate() bool { return f.typ == TypeDate }

func (f *Field) layouts() []string {
	candidates := f.formats
	if len(candidates) == 0 {
		candidates = DateTimeLayouts
		if f.isDate() {
			candidates = DateLayouts
		}
	}
	if f.outputFormat == "" {
		return candidates
	}
	return append([]string{f.outputFormat}, candidates...)
}

func (f *Field) boundLayout() string {
	if f.isDate() {
		return dateLayout
	}
	return dateTimeLayout
}

// DateParseStrategy turns time values, Unix timestamps and strings into a
// time.Time. Strings are tried against each candidate layout and the first
// successful parse wins. Date fields truncate the result to midnight.
type DateParseStrategy struct{}

func (DateParseStrategy) Validate(value any, f *Field) (any, error) {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return nil, f.fail(KindInvalidType, Params{"expected_type": expectedTypes[f.typ]})
		}
		t = *v
	case string:
		parsed, ok := parseTime(strings.TrimSpace(v), f.layouts(), f.location)
		if !ok {
			kind := KindInvalidDateTime
			if f.isDate() {
				kind = KindInvalidDate
			}
			return nil, f.fail(kind, Params{"value": v, "formats": f.layouts()})
		}
		t = parsed
	default:
		if !isNumber(v) {
			return nil, f.fail(KindInvalidType, Params{"expected_type": expectedTypes[f.typ]})
		}
		t = fromTimestamp(toFloat(v), f.location)
	}

	if f.isDate() {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return t, nil
}

func parseTime(s string, layouts []string, loc *time.Location) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromTimestamp(ts float64, loc *time.Location) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).In(loc)
}

// DateRangeStrategy enforces inclusive bounds on parsed times.
type DateRangeStrategy struct{}

func (DateRangeStrategy) Validate(value any, f *Field) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		return value, nil
	}
	minKind, maxKind := KindMinDateTime, KindMaxDateTime
	if f.isDate() {
		minKind, maxKind = KindMinDate, KindMaxDate
	}
	if f.minTime != nil && t.Before(*f.minTime) {
		return nil, f.fail(minKind, Params{string(minKind): f.minTime.Format(f.boundLayout())})
	}
	if f.maxTime != nil && t.After(*f.maxTime) {
		return nil, f.fail(maxKind, Params{string(maxKind): f.maxTime.Format(f.boundLayout())})
	}
	return value, nil
}

// DateOutputStrategy applies the configured output transform: a formatted
// string, or Unix seconds when ReturnTimestamp is set.
type DateOutputStrategy struct{}

func (DateOutputStrategy) Validate(value any, f *Field) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		return value, nil
	}
	switch {
	case f.outputFormat != "":
		return t.Format(f.outputFormat), nil
	case f.returnTimestamp:
		return t.Unix(), nil
	}
	return t, nil
}
