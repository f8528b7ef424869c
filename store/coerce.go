package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var jsonNull = []byte("null")

// CoerceArray turns a stored collection value into its elements. Absent and null values are
// empty; arrays yield their non-null elements; objects yield their values in the order the keys
// appear in the payload.
func CoerceArray(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok || (delim != '[' && delim != '{') {
		return nil, ErrUnexpectedShape
	}

	var out []json.RawMessage
	for dec.More() {
		if delim == '{' {
			// key; the value follows
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
		}

		var el json.RawMessage
		if err := dec.Decode(&el); err != nil {
			return nil, fmt.Errorf("decode element %d: %w", len(out), err)
		}
		if bytes.Equal(bytes.TrimSpace(el), jsonNull) {
			continue
		}
		out = append(out, el)
	}

	return out, nil
}

// CoerceObject returns raw when it holds a JSON object, and false for anything else.
func CoerceObject(raw json.RawMessage) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	return trimmed, true
}
