package logger

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error". A nil error yields an empty Attr, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors", keyed by position.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Component records the emitting component under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Schema records a schema name under "schema".
func Schema(name string) slog.Attr {
	return slog.String("schema", name)
}

// Fields records a schema's field names under "fields".
func Fields(names []string) slog.Attr {
	return slog.String("fields", strings.Join(names, ","))
}

// Path records the dotted path of a validation failure under "path".
// An empty path yields an empty Attr.
func Path(segments []string) slog.Attr {
	if len(segments) == 0 {
		return slog.Attr{}
	}
	return slog.String("path", strings.Join(segments, "."))
}

// Document records the file being processed under "document".
func Document(path string) slog.Attr {
	return slog.String("document", path)
}

// Language records a message language under "lang".
func Language(lang string) slog.Attr {
	return slog.String("lang", lang)
}

// Duration records a duration under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
