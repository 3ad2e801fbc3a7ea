// Package structured parses text into generic structured values
// (null, bool, number, string, list, object) and encodes them back.
package structured

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "desktop-core-service/pkg/errors"
)

// Value is a parsed document node. Numbers keep their literal text, so
// integers outside the float64 range survive a round trip unchanged.
type Value struct {
	// nil, bool, json.Number, string, []any or map[string]any
	raw any
}

// Parse parses text into a structured value. When an object repeats a key the
// last occurrence wins. Malformed input returns a *errors.ParseError.
func Parse(text string) (*Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, apperrors.NewParseError(text, "", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("trailing data after top-level value")
		}
		return nil, apperrors.NewParseError(text, "", err)
	}
	return &Value{raw: raw}, nil
}

// Field returns the value stored under key when v is an object.
func Field(v *Value, key string) (*Value, bool) {
	if v == nil {
		return nil, false
	}
	obj, ok := v.raw.(map[string]any)
	if !ok {
		return nil, false
	}
	f, ok := obj[key]
	if !ok {
		return nil, false
	}
	return &Value{raw: f}, true
}

// Index returns the i-th element when v is an array.
func Index(v *Value, i int) (*Value, bool) {
	if v == nil {
		return nil, false
	}
	list, ok := v.raw.([]any)
	if !ok || i < 0 || i >= len(list) {
		return nil, false
	}
	return &Value{raw: list[i]}, true
}

// Number returns the literal text of a number value.
func (v *Value) Number() (json.Number, bool) {
	if v == nil {
		return "", false
	}
	n, ok := v.raw.(json.Number)
	return n, ok
}

// Text returns the contents of a string value.
func (v *Value) Text() (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.raw.(string)
	return s, ok
}

// Bool returns the contents of a boolean value.
func (v *Value) Bool() (bool, bool) {
	if v == nil {
		return false, false
	}
	b, ok := v.raw.(bool)
	return b, ok
}

// Encode serializes v to compact text with object keys sorted.
func Encode(v *Value) (string, error) {
	if v == nil {
		return "", fmt.Errorf("cannot encode nil value")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v.raw); err != nil {
		return "", fmt.Errorf("failed to encode value: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Kind returns a short name for the type of v, as reported in API responses.
func Kind(v *Value) string {
	if v == nil {
		return "unknown"
	}
	switch v.raw.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
