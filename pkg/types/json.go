package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Stringify encodes v as compact JSON without HTML escaping.
func Stringify(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// ScalarString formats booleans and numbers as strings.
// It reports false for anything that is not a scalar.
func ScalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), true
	case json.Number:
		return x.String(), true
	}
	return "", false
}

// ToObject normalizes v into a JSON object.
// Maps are returned as-is, strings are parsed as JSON and anything else is
// round-tripped through encoding/json. Non-object values fail.
func ToObject(v any) (map[string]any, error) {
	switch x := v.(type) {
	case map[string]any:
		return x, nil
	case string:
		var out map[string]any
		if err := json.Unmarshal([]byte(x), &out); err != nil || out == nil {
			return nil, fmt.Errorf("not a JSON object: %q", x)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("not a JSON object: null")
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return nil, fmt.Errorf("not a JSON object: %s", raw)
	}
	return out, nil
}
