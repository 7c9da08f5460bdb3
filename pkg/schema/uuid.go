package schema

import "github.com/google/uuid"

// UUIDStrategy parses textual UUIDs and returns the canonical form.
type UUIDStrategy struct{}

func (UUIDStrategy) Validate(value any, f *Field) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, f.fail(KindInvalidUUID, Params{"value": s})
	}
	return id.String(), nil
}
