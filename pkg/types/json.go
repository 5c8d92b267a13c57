package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON stores a free-form JSON document in a TEXT column. A nil value
// round-trips as SQL NULL so optional document fields stay distinguishable
// from explicit empty objects.
type JSON json.RawMessage

// Value marshals the document into its textual SQL representation.
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	if !json.Valid(j) {
		return nil, fmt.Errorf("json column: invalid document")
	}
	return string(j), nil
}

// Scan decodes the stored text back into the document.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSON(v)
	default:
		return fmt.Errorf("json column: unsupported scan type %T", value)
	}
	return nil
}

// MarshalJSON writes the raw document, or null when empty.
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON stores the raw document bytes.
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return fmt.Errorf("json column: unmarshal into nil pointer")
	}
	if string(data) == "null" {
		*j = nil
		return nil
	}
	*j = append((*j)[:0], data...)
	return nil
}
