package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonColumn stores a typed value as JSON text.
type jsonColumn[T any] struct {
	V T
}

// Value implements driver.Valuer.
func (j jsonColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.V)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (j *jsonColumn[T]) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		var zero T
		j.V = zero
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, &j.V)
}
