package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexString decodes a JSON string or number into its string form.
// null decodes to the empty string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the decoded value.
func (f FlexString) String() string { return string(f) }

// OneOrMany decodes a JSON value that is either a single object or an array of objects.
type OneOrMany[T any] struct {
	Items   []T
	IsArray bool // the payload was an array
	Present bool // the payload was neither missing nor null
}

// One wraps a single value.
func One[T any](v T) OneOrMany[T] {
	return OneOrMany[T]{Items: []T{v}, Present: true}
}

// Many wraps a list of values.
func Many[T any](vs ...T) OneOrMany[T] {
	return OneOrMany[T]{Items: vs, IsArray: true, Present: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*o = OneOrMany[T]{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	o.Present = true
	if data[0] == '[' {
		o.IsArray = true
		return json.Unmarshal(data, &o.Items)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Items = []T{v}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OneOrMany[T]) MarshalJSON() ([]byte, error) {
	switch {
	case !o.Present:
		return []byte("null"), nil
	case o.IsArray:
		if o.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(o.Items)
	case len(o.Items) == 0:
		return []byte("null"), nil
	default:
		return json.Marshal(o.Items[0])
	}
}

// FormatNumber renders a float in its shortest decimal form (129.9, 50, 0.5).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
