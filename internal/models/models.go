package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON is a free-form map stored as a text column
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// NewJSON converts any JSON-encodable value into a JSON map.
func NewJSON(v interface{}) (JSON, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var j JSON
	if err := json.Unmarshal(bytes, &j); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *JSON) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	if len(bytes) == 0 {
		*j = nil
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// String returns the value stored under key, or "" when it is absent or not a string.
func (j JSON) String(key string) string {
	if j == nil {
		return ""
	}
	value, ok := j[key].(string)
	if !ok {
		return ""
	}
	return value
}
