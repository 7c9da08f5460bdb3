package schema

import (
	"errors"
	"reflect"
	"strconv"
)

// Strategy is a single stateless validation rule. It receives the value
// produced by the previous strategy and returns the value for the next one.
type Strategy interface {
	Validate(value any, f *Field) (any, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(value any, f *Field) (any, error)

func (fn StrategyFunc) Validate(value any, f *Field) (any, error) {
	return fn(value, f)
}

// SkipRemaining is returned by a strategy to end the pipeline early with
// its returned value as the result. It is never reported as a failure.
var SkipRemaining = errors.New("skip remaining strategies")

// walker is implemented by strategies that recurse into nested values and
// need the working set of the current validation call tree.
type walker interface {
	walk(value any, f *Field, seen *visited) (any, error)
}

// RequiredStrategy fails nil input (and the empty string) for required
// fields. For optional fields nil resolves to the default and the rest of
// the pipeline is skipped.
type RequiredStrategy struct{}

func (RequiredStrategy) Validate(value any, f *Field) (any, error) {
	empty := value == nil
	if s, ok := value.(string); ok && f.required && s == "" {
		empty = true
	}
	if !empty {
		return value, nil
	}
	if f.required {
		return nil, f.fail(KindRequired, nil)
	}
	return f.Default(), SkipRemaining
}

// LengthStrategy enforces inclusive min/max length on strings, slices,
// arrays and maps. Other values pass through.
type LengthStrategy struct{}

func (LengthStrategy) Validate(value any, f *Field) (any, error) {
	n, ok := lengthOf(value)
	if !ok {
		return value, nil
	}
	if f.minLength != nil && n < *f.minLength {
		return nil, f.fail(KindMinLength, Params{"min_length": *f.minLength})
	}
	if f.maxLength != nil && n > *f.maxLength {
		return nil, f.fail(KindMaxLength, Params{"max_length": *f.maxLength})
	}
	return value, nil
}

// RangeStrategy enforces inclusive min/max bounds on numbers.
type RangeStrategy struct{}

func (RangeStrategy) Validate(value any, f *Field) (any, error) {
	if !isNumber(value) {
		return value, nil
	}
	if f.minBound != nil {
		if c, ok := compareNumbers(value, f.minBound); ok && c < 0 {
			return nil, f.fail(KindMinValue, Params{"minvalue": f.minBound})
		}
	}
	if f.maxBound != nil {
		if c, ok := compareNumbers(value, f.maxBound); ok && c > 0 {
			return nil, f.fail(KindMaxValue, Params{"maxvalue": f.maxBound})
		}
	}
	return value, nil
}

// ChoicesStrategy rejects values outside the configured set.
type ChoicesStrategy struct{}

func (ChoicesStrategy) Validate(value any, f *Field) (any, error) {
	if f.choices == nil || containsValue(f.choices, value) {
		return value, nil
	}
	return nil, f.fail(KindChoices, Params{"choices": f.choices})
}

// RegexStrategy matches strings against the configured pattern.
type RegexStrategy struct{}

func (RegexStrategy) Validate(value any, f *Field) (any, error) {
	s, ok := value.(string)
	if f.regex == nil || !ok {
		return value, nil
	}
	if !f.regex.MatchString(s) {
		return nil, f.fail(KindRegex, Params{"regex": f.pattern})
	}
	return value, nil
}

// ListItemsStrategy validates every element of a list against the field's
// item type and returns the validated elements as []any.
//
// Item types are tried in order: a *Schema builds records from mappings,
// a *Field validates the item through its own pipeline, a reflect.Type
// checks assignability.
type ListItemsStrategy struct{}

func (s ListItemsStrategy) Validate(value any, f *Field) (any, error) {
	return s.walk(value, f, newVisited())
}

func (ListItemsStrategy) walk(value any, f *Field, seen *visited) (any, error) {
	list, ok := asSlice(value)
	if !ok || f.itemType == nil {
		return nil, f.fail(KindInvalidType, Params{"expected_type": "list"})
	}
	if _, active := seen.lookup(value); active {
		return value, nil
	}
	leave := seen.enter(value, value)
	defer leave()

	results := make([]any, 0, list.Len())
	for i := range list.Len() {
		item := list.Index(i).Interface()
		validated, err := validateItem(item, i, f, seen)
		if err != nil {
			return nil, err
		}
		results = append(results, validated)
	}
	return results, nil
}

func validateItem(item any, index int, f *Field, seen *visited) (any, error) {
	segment := strconv.Itoa(index)

	if s, ok := f.itemType.(*Schema); ok {
		if m, ok := asMapping(item); ok {
			rec, err := s.build(m, seen)
			if err != nil {
				return nil, withSegment(err, segment)
			}
			return rec, nil
		}
		if rec, ok := item.(*Record); ok && rec.schema == s {
			if err := rec.revalidate(seen); err != nil {
				return nil, withSegment(err, segment)
			}
			return rec, nil
		}
		return nil, f.fail(KindInvalidListItem, Params{"index": index, "expected_type": s.Name()})
	}

	if inner, ok := f.itemType.(*Field); ok {
		validated, err := inner.validate(item, seen)
		if err != nil {
			return nil, withSegment(err, segment)
		}
		return validated, nil
	}

	if t, ok := f.itemType.(reflect.Type); ok {
		if item == nil || !reflect.TypeOf(item).AssignableTo(t) {
			return nil, f.fail(KindInvalidListItem, Params{"index": index, "expected_type": t.String()})
		}
		return item, nil
	}

	return nil, f.fail(KindInvalidListItem, Params{"index": index, "expected_type": reflect.TypeOf(f.itemType).String()})
}
