package schema

import (
	"errors"
	"strings"
)

// Sentinel errors matched by ValidationError through errors.Is.
var (
	// ErrValidationFailed matches every ValidationError regardless of kind.
	ErrValidationFailed = errors.New("validation failed")

	// ErrRequired is matched when a required value is missing or empty.
	ErrRequired = errors.New("field is required")

	// ErrLength is matched when a string or list has an invalid length.
	ErrLength = errors.New("invalid length")

	// ErrRange is matched when a number or date is out of the allowed range.
	ErrRange = errors.New("value out of range")

	// ErrChoice is matched when a value is not one of the allowed choices.
	ErrChoice = errors.New("value not allowed")

	// ErrPattern is matched when a string does not match the configured pattern.
	ErrPattern = errors.New("pattern mismatch")

	// ErrType is matched when a value or list item has the wrong type.
	ErrType = errors.New("invalid type")

	// ErrFormat is matched when a date, datetime or uuid cannot be parsed.
	ErrFormat = errors.New("invalid format")

	// ErrMissingField is matched when construction omits a required field.
	ErrMissingField = errors.New("missing required field")

	// ErrNested is matched when a nested object value has the wrong shape.
	ErrNested = errors.New("invalid nested value")

	// ErrCustom is matched by failures reported from user validators and setters.
	ErrCustom = errors.New("custom validation failed")
)

// Definition errors returned by Define and New.
var (
	ErrAlreadyDefined = errors.New("schema is already defined")
	ErrNotDefined     = errors.New("schema is declared but not defined")
	ErrUnknownField   = errors.New("hook references an undeclared field")
	ErrEmptyName      = errors.New("name must not be empty")
	ErrNilField       = errors.New("field declaration is nil")
)

// ErrorKind is a machine-readable tag for a validation failure.
// It equals the message key the failure was rendered from.
type ErrorKind string

const (
	KindRequired        ErrorKind = "required"
	KindMinLength       ErrorKind = "min_length"
	KindMaxLength       ErrorKind = "max_length"
	KindMinValue        ErrorKind = "minvalue"
	KindMaxValue        ErrorKind = "maxvalue"
	KindChoices         ErrorKind = "choices"
	KindRegex           ErrorKind = "regex"
	KindInvalidType     ErrorKind = "invalid_type"
	KindInvalidListItem ErrorKind = "invalid_list_item"
	KindInvalidDate     ErrorKind = "invalid_date"
	KindMinDate         ErrorKind = "min_date"
	KindMaxDate         ErrorKind = "max_date"
	KindInvalidDateTime ErrorKind = "invalid_datetime"
	KindMinDateTime     ErrorKind = "min_datetime"
	KindMaxDateTime     ErrorKind = "max_datetime"
	KindInvalidUUID     ErrorKind = "invalid_uuid"
	KindMissingField    ErrorKind = "missing_field"
	KindInvalidNested   ErrorKind = "invalid_nested"
	KindCustom          ErrorKind = "custom"
)

var kindSentinels = map[ErrorKind]error{
	KindRequired:        ErrRequired,
	KindMinLength:       ErrLength,
	KindMaxLength:       ErrLength,
	KindMinValue:        ErrRange,
	KindMaxValue:        ErrRange,
	KindChoices:         ErrChoice,
	KindRegex:           ErrPattern,
	KindInvalidType:     ErrType,
	KindInvalidListItem: ErrType,
	KindInvalidDate:     ErrFormat,
	KindMinDate:         ErrRange,
	KindMaxDate:         ErrRange,
	KindInvalidDateTime: ErrFormat,
	KindMinDateTime:     ErrRange,
	KindMaxDateTime:     ErrRange,
	KindInvalidUUID:     ErrFormat,
	KindMissingField:    ErrMissingField,
	KindInvalidNested:   ErrNested,
	KindCustom:          ErrCustom,
}

// ValidationError describes a single validation failure together with the
// path from the root record to the failing value.
type ValidationError struct {
	Message   string
	FieldName string
	Path      []string
	Kind      ErrorKind

	cause error
}

// NewValidationError creates a custom-kind error. Validator and setter hooks
// return it to report a failure with their own message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Kind: KindCustom}
}

func newKindError(kind ErrorKind, message string) *ValidationError {
	return &ValidationError{Message: message, Kind: kind}
}

// Error joins the path segments and the message with ": ".
func (e *ValidationError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return strings.Join(e.Path, ": ") + ": " + e.Message
}

// Unwrap exposes the kind sentinel, ErrValidationFailed and the original
// cause of a wrapped hook error.
func (e *ValidationError) Unwrap() []error {
	errs := []error{ErrValidationFailed}
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// PathString renders the path with dots, e.g. "employees.2.email".
func (e *ValidationError) PathString() string {
	return strings.Join(e.Path, ".")
}

// prepend adds a segment in front of the path as the error crosses a
// nesting boundary on its way to the caller.
func (e *ValidationError) prepend(segment string) *ValidationError {
	path := make([]string, 0, len(e.Path)+1)
	path = append(path, segment)
	e.Path = append(path, e.Path...)
	return e
}

// AsValidationError extracts a ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	_, ok := AsValidationError(err)
	return ok
}

// toValidationError converts arbitrary hook errors into custom-kind
// validation errors so they can carry path context.
func toValidationError(err error) *ValidationError {
	if verr, ok := AsValidationError(err); ok {
		return verr
	}
	return &ValidationError{Message: err.Error(), Kind: KindCustom, cause: err}
}

// withSegment annotates err with a path segment, converting non-validation
// errors to custom-kind ones first.
func withSegment(err error, segment string) error {
	if err == nil {
		return nil
	}
	return toValidationError(err).prepend(segment)
}
